package workflows

type PaperProcessInput struct {
	PaperID      string `json:"paper_id"`
	PaperPath    string `json:"paper_path"`
	Filename     string `json:"filename"`
	ChunkSize    int    `json:"chunk_size"`
	ChunkOverlap int    `json:"chunk_overlap"`
}

type PaperStatus struct {
	PaperID     string            `json:"paper_id"`
	PaperPath   string            `json:"paper_path"`
	CurrentStep string            `json:"current_step"`
	Status      string            `json:"status"`
	FailReason  string            `json:"fail_reason,omitempty"`
	Chunks      int               `json:"chunks"`
	Steps       map[string]string `json:"steps"`
}
