package model

import (
	"time"

	"github.com/google/uuid"
)

type CounselingTurn struct {
	Id              uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SessionId       string    `gorm:"type:varchar(128);not null;index"`
	Date            string    `gorm:"type:char(10);not null;index"`
	UserMessage     string    `gorm:"type:text;not null"`
	AssistantReply  string    `gorm:"type:text;not null"`
	DetectedEmotion string    `gorm:"type:varchar(32)"`
	Stage           string    `gorm:"type:varchar(32)"`
	Persona         string    `gorm:"type:varchar(32)"`
	TurnNumber      int       `gorm:"not null;default:0"`
	RAGEnhanced     bool      `gorm:"not null;default:false"`
	CreatedAt       time.Time `gorm:"autoCreateTime;index"`
}

func (CounselingTurn) TableName() string {
	return "counseling_turns"
}
