package zones

import (
	"fmt"

	"github.com/EmpoweredVote/EV-Complaints/internal/db"
)

func Init() error {
	if err := db.EnsureSchema(db.DB, "zones"); err != nil {
		return fmt.Errorf("ensure schema zones: %w", err)
	}
	if err := db.DB.AutoMigrate(&Zone{}); err != nil {
		return fmt.Errorf("migrate zones: %w", err)
	}
	return nil
}
