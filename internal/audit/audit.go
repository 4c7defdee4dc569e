package audit

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/rimu-cli/rimu/internal/configs"
)

// Entry represents a single operation history entry. Entries record
// which keys an operation touched and how it ended; message payloads
// and passphrases are never written here.
type Entry struct {
	Timestamp string `json:"ts"`             // RFC3339 with microseconds.
	User      string `json:"user,omitempty"` // Email of the configured user.
	UserUUID  string `json:"uuid,omitempty"` // Stable UUID of the configured user.
	Operation string `json:"op"`             // encrypt, sign, decrypt, verify, keys-list, ...

	// Optional fields depending on operation.
	Signer         string `json:"signer,omitempty"`          // Fingerprint used for --local-user.
	Recipient      string `json:"recipient,omitempty"`       // Fingerprint used for --recipient.
	ExpectedSender string `json:"expected_sender,omitempty"` // Sender the caller asked to verify.
	Verified       *bool  `json:"verified,omitempty"`        // Signature outcome, when interpreted.
	SenderMatched  *bool  `json:"sender_matched,omitempty"`  // Sender match outcome, when checked.
	KeyCount       int    `json:"key_count,omitempty"`       // For listings.

	Outcome string `json:"outcome"`          // "ok" or "failed".
	Detail  string `json:"detail,omitempty"` // Error class on failure or sender mismatch; never payload text.
}

// Log appends an entry to the operation history.
// If logging fails, the operation proceeds regardless; history is a
// convenience, not a dependency.
func Log(entry Entry) {
	// Set timestamp if not already set.
	if entry.Timestamp == "" {
		entry.Timestamp = time.Now().UTC().Format("2006-01-02T15:04:05.000000Z")
	}

	logPath := LogPath()
	if err := os.MkdirAll(filepath.Dir(logPath), 0700); err != nil {
		return
	}

	// Open file for appending (create if doesn't exist).
	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return
	}
	defer f.Close()

	data, err := json.Marshal(entry)
	if err != nil {
		return
	}

	_, _ = f.Write(append(data, '\n'))
}

// LogWithUser is a convenience that populates user fields from config.
func LogWithUser(op string) Entry {
	entry := Entry{Operation: op}

	userConfig, err := configs.LoadUserConfig()
	if err != nil {
		return entry
	}

	entry.User = userConfig.User.Email
	entry.UserUUID = userConfig.User.UUID

	return entry
}

// LogPath returns the path to the operation history file.
func LogPath() string {
	return filepath.Join(configs.UserRimuSettings.UserDataPath, "history.jsonl")
}

// ReadEntries reads all entries from the operation history.
// Returns an empty slice if the history doesn't exist.
func ReadEntries() ([]Entry, error) {
	data, err := os.ReadFile(LogPath())
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return ParseEntries(data)
}

// ParseEntries parses JSON Lines data into history entries.
// Malformed lines are silently skipped.
func ParseEntries(data []byte) ([]Entry, error) {
	if len(data) == 0 {
		return nil, nil
	}

	var entries []Entry
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var entry Entry
		if err := json.Unmarshal(line, &entry); err != nil {
			continue
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return entries, err
	}
	return entries, nil
}
