package services

import (
	"errors"
	"fmt"
	"log"

	"github.com/yishak-cs/bites/internal/database"
	"github.com/yishak-cs/bites/internal/models"
)

// escalate inspects the replies of one batch whose writes must land together.
// If none failed it returns nil; if all failed the store was unreachable;
// anything in between left a half-applied write and is a consistency fault.
func escalate(op string, replies ...database.Reply) error {
	var failed []error
	for _, reply := range replies {
		if err := reply.Err(); err != nil {
			failed = append(failed, err)
		}
	}

	switch len(failed) {
	case 0:
		return nil
	case len(replies):
		return fmt.Errorf("%s: %w", op, errors.Join(failed...))
	default:
		log.Printf("CONSISTENCY FAULT: %s: %d of %d writes failed: %v", op, len(failed), len(replies), errors.Join(failed...))
		return fmt.Errorf("%s: %w: %w", op, models.ErrConsistencyFault, errors.Join(failed...))
	}
}
