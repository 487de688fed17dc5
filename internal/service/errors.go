package service

import "errors"

var (
	ErrForbidden               = errors.New("forbidden")
	ErrInvalidStatusTransition = errors.New("invalid leave request status transition")
	ErrDateNotPlannable        = errors.New("date cannot be planned")
	ErrInvalidRange            = errors.New("start date is after end date")
	ErrUnknownLeaveType        = errors.New("leave type is required")
	ErrUserNotFound            = errors.New("user not found")
)
