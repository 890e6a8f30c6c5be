package dto

type GenerateRequest struct {
	Topic string `json:"topic" binding:"required"`
}

type GenerateResponse struct {
	RunID      string  `json:"run_id"`
	Location   string  `json:"location"`
	Duration   float64 `json:"duration_seconds"`
	FrameCount int     `json:"frame_count"`
}
