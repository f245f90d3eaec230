package deque

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidCapacity        = errors.New("invalid capacity")
	ErrIndexOutOfRange        = errors.New("index out of range")
	ErrNullTarget             = errors.New("copy target is nil")
	ErrInsufficientSpace      = errors.New("insufficient space in copy target")
	ErrConcurrentModification = errors.New("deque modified during iteration")
)

type CapacityError struct {
	capacity int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("capacity must be at least %d, got %d", MinCapacity, e.capacity)
}

func (e *CapacityError) Unwrap() error {
	return ErrInvalidCapacity
}

type IndexError struct {
	index  int
	length int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("index %d out of range for length %d", e.index, e.length)
}

func (e *IndexError) Unwrap() error {
	return ErrIndexOutOfRange
}

type CopyError struct {
	offset int
	length int
}

func (e *CopyError) Error() string {
	return fmt.Sprintf("offset %d exceeds target size of %d", e.offset, e.length)
}

func (e *CopyError) Unwrap() error {
	return ErrInsufficientSpace
}
