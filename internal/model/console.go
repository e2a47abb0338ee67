package model

// ExecuteSQLRequest is the body of POST /api/sql.
type ExecuteSQLRequest struct {
	Query string `json:"query"`
}

// Validate accepts any string. A blank statement is a console outcome
// ({"error": "Empty query"}), not a validation failure.
func (r *ExecuteSQLRequest) Validate() error {
	return nil
}
