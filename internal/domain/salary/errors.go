package salary

import "errors"

var (
	ErrStructureNotFound = errors.New("salary structure not found")
	ErrNegativeComponent = errors.New("salary component must not be negative")
)
