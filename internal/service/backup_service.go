package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"eggadventure/internal/database"
	"eggadventure/internal/repository"
)

// BackupData is the portable backup file structure: accounts plus their
// profile documents. Sessions are transient and not exported.
type BackupData struct {
	Version    string          `json:"version"`
	ExportedAt time.Time       `json:"exported_at"`
	Users      []UserBackup    `json:"users"`
	Profiles   []ProfileBackup `json:"profiles"`
}

// UserBackup represents a user record for backup
type UserBackup struct {
	ID            string    `json:"id"`
	Email         string    `json:"email"`
	PasswordHash  string    `json:"password_hash"`
	IsAnonymous   bool      `json:"is_anonymous"`
	OAuthProvider string    `json:"oauth_provider"`
	OAuthSubject  string    `json:"oauth_subject"`
	CreatedAt     time.Time `json:"created_at"`
}

// ProfileBackup represents a profile document for backup
type ProfileBackup struct {
	UserID    string          `json:"user_id"`
	Slot      string          `json:"slot"`
	Doc       json.RawMessage `json:"doc"`
	Version   int64           `json:"doc_version"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// BackupService handles database backup and restore operations
type BackupService struct {
	db *database.DB
}

// NewBackupService creates a new backup service
func NewBackupService(db *database.DB) *BackupService {
	return &BackupService{db: db}
}

// Export writes accounts and profile documents to a JSON file
func (s *BackupService) Export(ctx context.Context, outputPath string) error {
	log.Println("Starting database export...")

	backup := &BackupData{
		Version:    "1.0",
		ExportedAt: time.Now(),
	}

	if err := s.exportUsers(ctx, backup); err != nil {
		return fmt.Errorf("failed to export users: %w", err)
	}
	if err := s.exportProfiles(ctx, backup); err != nil {
		return fmt.Errorf("failed to export profiles: %w", err)
	}

	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(backup); err != nil {
		return fmt.Errorf("failed to encode backup: %w", err)
	}

	log.Printf("Database exported successfully to %s", outputPath)
	log.Printf("Exported: %d users, %d profiles", len(backup.Users), len(backup.Profiles))
	return nil
}

// Import restores accounts and profile documents from a backup file
func (s *BackupService) Import(ctx context.Context, inputPath string) error {
	log.Printf("Starting database import from %s...", inputPath)

	file, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("failed to open input file: %w", err)
	}
	defer file.Close()

	var backup BackupData
	if err := json.NewDecoder(file).Decode(&backup); err != nil {
		return fmt.Errorf("failed to decode backup: %w", err)
	}

	log.Printf("Backup version: %s, exported at: %s", backup.Version, backup.ExportedAt)

	if err := s.importUsers(ctx, backup.Users); err != nil {
		return fmt.Errorf("failed to import users: %w", err)
	}
	if err := s.importProfiles(ctx, backup.Profiles); err != nil {
		return fmt.Errorf("failed to import profiles: %w", err)
	}

	log.Println("Database import completed successfully")
	return nil
}

func (s *BackupService) exportUsers(ctx context.Context, backup *BackupData) error {
	query := "SELECT id, COALESCE(email, ''), password_hash, is_anonymous, COALESCE(oauth_provider, ''), COALESCE(oauth_subject, ''), created_at FROM users ORDER BY id"
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var u UserBackup
		if err := rows.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.IsAnonymous, &u.OAuthProvider, &u.OAuthSubject, &u.CreatedAt); err != nil {
			return err
		}
		backup.Users = append(backup.Users, u)
	}
	return rows.Err()
}

func (s *BackupService) exportProfiles(ctx context.Context, backup *BackupData) error {
	query := "SELECT user_id, slot, doc, version, updated_at FROM profiles WHERE namespace = ? ORDER BY user_id"
	rows, err := s.db.QueryContext(ctx, query, repository.AppNamespace)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var p ProfileBackup
		var doc []byte
		if err := rows.Scan(&p.UserID, &p.Slot, &doc, &p.Version, &p.UpdatedAt); err != nil {
			return err
		}
		p.Doc = json.RawMessage(doc)
		backup.Profiles = append(backup.Profiles, p)
	}
	return rows.Err()
}

func (s *BackupService) importUsers(ctx context.Context, users []UserBackup) error {
	log.Printf("Importing %d users...", len(users))
	for _, u := range users {
		// email is the only nullable column; the oauth columns default
		// to empty strings and stay that way for non-OAuth accounts
		query := "INSERT INTO users (id, email, password_hash, is_anonymous, oauth_provider, oauth_subject, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)"
		_, err := s.db.ExecContext(ctx, query, u.ID, nullIfEmpty(u.Email), u.PasswordHash, u.IsAnonymous, u.OAuthProvider, u.OAuthSubject, u.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to import user %s: %w", u.ID, err)
		}
	}
	return nil
}

func (s *BackupService) importProfiles(ctx context.Context, profiles []ProfileBackup) error {
	log.Printf("Importing %d profiles...", len(profiles))
	for _, p := range profiles {
		query := "INSERT INTO profiles (namespace, user_id, slot, doc, version, updated_at) VALUES (?, ?, ?, ?, ?, ?)"
		_, err := s.db.ExecContext(ctx, query, repository.AppNamespace, p.UserID, p.Slot, []byte(p.Doc), p.Version, p.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to import profile for user %s: %w", p.UserID, err)
		}
	}
	return nil
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
