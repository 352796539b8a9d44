package dto

type ChatHistoryItem struct {
	Date            string `json:"date"`
	Timestamp       string `json:"timestamp"`
	SessionId       string `json:"session_id"`
	UserMessage     string `json:"userMessage"`
	AssistantReply  string `json:"assistantReply"`
	DetectedEmotion string `json:"detected_emotion"`
	CounselingStage string `json:"counseling_stage"`
}

type ChatHistoryByDateResponse struct {
	Date  string             `json:"date"`
	Chats []*ChatHistoryItem `json:"chats"`
	Count int                `json:"count"`
}

type ChatHistoryGroupedResponse struct {
	ChatHistory map[string][]*ChatHistoryItem `json:"chatHistory"`
}
