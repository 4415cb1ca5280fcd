package services

// ServiceError carries an HTTP status and a user-facing message across the
// service boundary. No raw error ever reaches a controller response.
type ServiceError struct {
	StatusCode int
	Message    string
}

func (e *ServiceError) Error() string {
	return e.Message
}
