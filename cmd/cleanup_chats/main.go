package main

import (
	"flag"
	"log"
	"os"
	"time"

	"collabotree-be/internal/constant"
	"collabotree-be/internal/model"
	"collabotree-be/pkg/database"

	"github.com/joho/godotenv"
)

// Removes chat data for hire requests that ended in REJECTED or CANCELLED
// more than the retention window ago. ACCEPTED and COMPLETED conversations
// are kept; completed work may still be referenced in disputes.
func main() {
	retentionDays := flag.Int("retention-days", 90, "delete chat data for dead hire requests older than this")
	dryRun := flag.Bool("dry-run", false, "report what would be deleted without deleting")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal(err)
	}

	cutoff := time.Now().AddDate(0, 0, -*retentionDays)
	log.Printf("Collecting chat rooms for rejected/cancelled hire requests older than %s...", cutoff.Format("2006-01-02"))

	var roomIDs []string
	err = db.Model(&model.ChatRoom{}).
		Joins("JOIN hire_requests ON hire_requests.id = chat_rooms.hire_request_id").
		Where("hire_requests.status IN ?", []string{constant.HireStatusRejected, constant.HireStatusCancelled}).
		Where("hire_requests.created_at < ?", cutoff).
		Pluck("chat_rooms.id", &roomIDs).Error
	if err != nil {
		log.Fatalf("Failed to collect rooms: %v", err)
	}

	if len(roomIDs) == 0 {
		log.Println("Nothing to clean up.")
		return
	}
	if *dryRun {
		log.Printf("Dry run: would delete %d rooms with their messages and receipts.", len(roomIDs))
		return
	}

	// Receipts first, then messages, then rooms, in one transaction.
	tx := db.Begin()
	if tx.Error != nil {
		log.Fatalf("Failed to begin transaction: %v", tx.Error)
	}

	result := tx.Where("message_id IN (SELECT id FROM messages WHERE chat_room_id IN ?)", roomIDs).Delete(&model.MessageRead{})
	if result.Error != nil {
		tx.Rollback()
		log.Fatalf("Failed to delete receipts: %v", result.Error)
	}
	log.Printf("Deleted %d read receipts.", result.RowsAffected)

	result = tx.Where("chat_room_id IN ?", roomIDs).Delete(&model.Message{})
	if result.Error != nil {
		tx.Rollback()
		log.Fatalf("Failed to delete messages: %v", result.Error)
	}
	log.Printf("Deleted %d messages.", result.RowsAffected)

	result = tx.Where("id IN ?", roomIDs).Delete(&model.ChatRoom{})
	if result.Error != nil {
		tx.Rollback()
		log.Fatalf("Failed to delete rooms: %v", result.Error)
	}
	log.Printf("Deleted %d rooms.", result.RowsAffected)

	if err := tx.Commit().Error; err != nil {
		log.Fatalf("Failed to commit: %v", err)
	}
	log.Println("Cleanup completed.")
}
