package iam

import "time"

// User is the credential record the iam adapter persists, trimmed from the
// teacher's internal/model/iam.User down to the fields Signup/Signin
// actually need; profile fields the teacher carries (avatar, bio, tenant,
// ...) belong to a user-management surface outside this core's scope.
type User struct {
	ID           string `gorm:"primaryKey;type:varchar(36)"`
	Username     string `gorm:"type:varchar(64);uniqueIndex;not null"`
	PasswordHash string `gorm:"type:varchar(255);not null"`

	TOTPSecret  string   `gorm:"type:varchar(64)"`
	TOTPEnabled bool     `gorm:"default:false"`
	BackupCodes []string `gorm:"-"`

	CreatedAt   time.Time
	LastLoginAt *time.Time
}

// Session is the Redis-resident record backing an issued token, grounded on
// the teacher's internal/model/iam.Session (UserID/Username plus
// user-agent-derived audit fields).
type Session struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`

	Platform   string `json:"platform"`
	OS         string `json:"os"`
	EngineName string `json:"engine_name"`

	IssuedAt time.Time `json:"issued_at"`
}

// backupCodesStore is a minimal in-process substitute for the teacher's
// TOTPDevice.BackupCodes gorm column: the iam adapter persists User rows
// via gorm but BackupCodes needs list semantics gorm's default scalar
// columns don't give it for free, so the adapter keeps it in memory
// alongside the row, keyed by user ID.
type backupCodesStore map[string][]string

func (b backupCodesStore) consume(userID, code string) bool {
	codes := b[userID]
	for i, c := range codes {
		if c == code {
			b[userID] = append(codes[:i], codes[i+1:]...)
			return true
		}
	}
	return false
}
