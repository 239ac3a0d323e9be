package dto

// UpdateRoleRequest payload for changing an account's role.
type UpdateRoleRequest struct {
	Role string `json:"role"`
}
