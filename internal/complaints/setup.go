package complaints

import (
	"fmt"

	"github.com/EmpoweredVote/EV-Complaints/internal/db"
)

func Init() error {
	if err := db.EnsureSchema(db.DB, "complaints"); err != nil {
		return fmt.Errorf("ensure schema complaints: %w", err)
	}
	if err := db.EnsureExtensions(db.DB); err != nil {
		return fmt.Errorf("ensure extensions: %w", err)
	}
	if err := db.DB.AutoMigrate(&Complaint{}); err != nil {
		return fmt.Errorf("migrate complaints: %w", err)
	}
	return nil
}
