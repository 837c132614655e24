package api

// SelfValidator is implemented by request types that validate themselves
// after binding and constraint checks.
type SelfValidator interface {
	Validate() error
}
