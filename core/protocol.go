package core

// Backend error codes. They travel as TextCode and as MetadataBackendCode.
const (
	ErrCodeEntityNotFound = "ENTITY_NOT_FOUND"
	ErrCodeEntityConflict = "ENTITY_CONFLICT"
	ErrCodeBadRequest     = "BAD_REQUEST"
	ErrCodeInternal       = "INTERNAL_ERROR"
)

// Requests are checked by the message types that carry them over the
// dispatcher.
type GetNamesRequest struct {
	Origin      string
	Integration string
}

type CreateRequest struct {
	Integration OriginIntegration
}

type DeleteRequest struct {
	Key IntegrationKey
}

type CheckOriginAccessRequest struct {
	SessionID string
	Origin    string
}

type OriginAccessResult struct {
	Allowed bool
}
