package entity

// DocumentPayload is a document slot's content as held by DocsMarshal.
// Replace must re-submit under the same FileName it was retrieved with.
type DocumentPayload struct {
	FileName string
	Content  []byte
}

// ---- GetProfileDocumentByObjectIdFieldExternalId ----

type DMGetByExternalIDRequest struct {
	SessionID       string `json:"sessionID"`
	ObjectID        string `json:"objectID"`
	FieldExternalID string `json:"fieldExternalId"`
}

type DMGetByExternalIDResponse struct {
	Result DMGetByExternalIDResult `json:"result"`
}

type DMGetByExternalIDResult struct {
	HasError bool                  `json:"HasError"`
	Error    string                `json:"Error"`
	Document *DMGetDocumentMinimal `json:"Document,omitempty"`
}

type DMGetDocumentMinimal struct {
	FileName          string `json:"FileName"`
	FileBase64Content string `json:"FileBase64Content"`
}

// ---- SetProfileDocument ----

type DMSetProfileDocumentRequest struct {
	SessionID           string `json:"sessionID"`
	ObjectID            string `json:"objectId"`
	FileName            string `json:"fileName"`
	FileContentBase64   string `json:"fileContentBase64"`
	FieldExternalID     string `json:"fieldExternalId,omitempty"`
	RaiseWorkflowEvents bool   `json:"raiseWorkflowEvents"`
}

type DMSetProfileDocumentResponse struct {
	HasError bool   `json:"HasError"`
	Error    string `json:"Error"`
}
