package request_models

type AccessibilityLogRequest struct {
	Feature string  `json:"feature" binding:"required,max=64"`
	Action  string  `json:"action" binding:"required,max=64"`
	Value   *string `json:"value" binding:"omitempty,max=256"`
}
