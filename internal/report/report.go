// Package report renders the final account snapshot as a CSV table.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/nkiryanov/payengine/internal/models"
)

var header = []string{"client", "available", "held", "total", "locked"}

// Write renders one row per account in the order given. Callers that need
// stable output should sort the snapshots first.
func Write(w io.Writer, snapshots []models.AccountSnapshot) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(header); err != nil {
		return fmt.Errorf("can't write report header. Err: %w", err)
	}

	for _, s := range snapshots {
		row := []string{
			s.ClientID.String(),
			s.Available.String(),
			s.Held.String(),
			s.Total.String(),
			strconv.FormatBool(s.Locked),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("can't write report row for client %s. Err: %w", s.ClientID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}
