package handlers

type ScanRequest struct {
	Address  string            `json:"address" binding:"required"`
	Network  string            `json:"network"`
	ABI      string            `json:"abi"`
	Labels   []string          `json:"labels"`
	Metadata map[string]string `json:"metadata"`
}

type ScanResponse struct {
	ScanID string `json:"scan_id"`
	Status string `json:"status"`
}

type ContractRequest struct {
	Address  string            `json:"address" binding:"required"`
	Network  string            `json:"network"`
	Labels   []string          `json:"labels"`
	Metadata map[string]string `json:"metadata"`
	Scan     bool              `json:"scan"`
}

type ForceFailRequest struct {
	Reason string `json:"reason"`
}

type ListMeta struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
}
