package dto

// ChatRequest is the body of POST /chat and each /ws/chat frame.
type ChatRequest struct {
	Message   string `json:"message" validate:"notblank" message:"메시지가 비어있습니다."`
	SessionId string `json:"session_id"`
	Persona   string `json:"persona"`
}

type ChatResponse struct {
	Response         string `json:"response"`
	SessionId        string `json:"session_id"`
	CounselingStage  string `json:"counseling_stage"`
	DetectedEmotion  string `json:"detected_emotion"`
	TurnCount        int    `json:"turn_count"`
	StageDescription string `json:"stage_description"`
	RAGEnhanced      bool   `json:"rag_enhanced"`
	Persona          string `json:"persona"`
	PersonaName      string `json:"persona_name"`
	Fallback         bool   `json:"fallback"`
}

type HealthResponse struct {
	Status      string `json:"status"`
	ModelLoaded bool   `json:"model_loaded"`
	Service     string `json:"service"`
}

type PersonaInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Style       string `json:"style"`
}

type PersonasResponse struct {
	AvailablePersonas map[string]PersonaInfo `json:"available_personas"`
	DefaultPersona    string                 `json:"default_persona"`
}

type SessionAnalysisResponse struct {
	SessionId          string   `json:"session_id"`
	TotalTurns         int      `json:"total_turns"`
	CurrentStage       string   `json:"current_stage"`
	StageDescription   string   `json:"stage_description"`
	IdentifiedEmotions []string `json:"identified_emotions"`
	ConversationLength int      `json:"conversation_length"`
	LastUpdate         *string  `json:"last_update"`
	Persona            string   `json:"persona"`
	PersonaName        string   `json:"persona_name"`
}
