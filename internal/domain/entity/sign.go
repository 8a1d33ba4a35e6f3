package entity

// SignAutoPadesRequest is the inbound payload for POST /api/sign/auto-pades.
// Pin lives only for the duration of the request and is never logged or stored.
type SignAutoPadesRequest struct {
	ObjectID   string `json:"objectId"`
	Alias      string `json:"alias"`
	Pin        string `json:"pin"`
	NomeMedico string `json:"nomeMedico"`
}

type SignAutoPadesResponse struct {
	Success        bool   `json:"success"`
	Message        string `json:"message"`
	SignedObjectID string `json:"signedObjectId,omitempty"`
}

// WatermarkRequest is the debug endpoint payload (POST /api/watermark/crea).
type WatermarkRequest struct {
	Nome       string `json:"nome"`
	FileBase64 string `json:"fileBase64"`
}

type WatermarkResponse struct {
	Success    bool   `json:"success"`
	Message    string `json:"message,omitempty"`
	FileBase64 string `json:"fileBase64,omitempty"`
}
