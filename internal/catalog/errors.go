package catalog

import "fmt"

// LoadError represents a failure to load or validate a catalog
type LoadError struct {
	Name    string
	Message string
	Cause   error
}

func (e *LoadError) Error() string {
	prefix := "catalog"
	if e.Name != "" {
		prefix = fmt.Sprintf("catalog %s", e.Name)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.Message)
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}
