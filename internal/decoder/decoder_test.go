package decoder

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nkiryanov/payengine/internal/apperrors"
	"github.com/nkiryanov/payengine/internal/models"
)

func readAll(t *testing.T, input string) ([]models.Transaction, error) {
	t.Helper()

	r, err := NewReader(strings.NewReader(input))
	require.NoError(t, err, "reading header should not fail")

	var txs []models.Transaction
	for {
		tx, err := r.Next()
		if err == io.EOF {
			return txs, nil
		}
		if err != nil {
			return txs, err
		}
		txs = append(txs, tx)
	}
}

func TestReader_Next(t *testing.T) {
	t.Run("decodes all kinds", func(t *testing.T) {
		input := strings.Join([]string{
			"type,client,tx,amount",
			"deposit,1,1,1.0",
			"withdrawal,1,2,0.5",
			"dispute,1,1,",
			"resolve,1,1,",
			"chargeback,1,1,",
		}, "\n")

		txs, err := readAll(t, input)

		require.NoError(t, err, "valid input should decode without error")
		require.Equal(t, []models.Transaction{
			{ID: 1, ClientID: 1, Kind: models.KindDeposit, Amount: 10000, Status: models.StatusAlive},
			{ID: 2, ClientID: 1, Kind: models.KindWithdrawal, Amount: 5000, Status: models.StatusAlive},
			{ID: 1, ClientID: 1, Kind: models.KindDispute, Status: models.StatusAlive},
			{ID: 1, ClientID: 1, Kind: models.KindResolve, Status: models.StatusAlive},
			{ID: 1, ClientID: 1, Kind: models.KindChargeback, Status: models.StatusAlive},
		}, txs)
	})

	t.Run("trims whitespace", func(t *testing.T) {
		input := "type, client, tx, amount\n" +
			"deposit,  42 ,  7 ,  1.2345 \n"

		txs, err := readAll(t, input)

		require.NoError(t, err)
		require.Len(t, txs, 1)
		require.Equal(t, models.ClientID(42), txs[0].ClientID)
		require.Equal(t, models.TransactionID(7), txs[0].ID)
		require.Equal(t, models.Amount(12345), txs[0].Amount)
	})

	t.Run("control rows may omit amount column", func(t *testing.T) {
		input := "type,client,tx,amount\n" +
			"deposit,1,1,1.0\n" +
			"dispute,1,1\n"

		txs, err := readAll(t, input)

		require.NoError(t, err, "short dispute row should decode")
		require.Len(t, txs, 2)
		require.Equal(t, models.KindDispute, txs[1].Kind)
	})

	t.Run("empty file after header", func(t *testing.T) {
		txs, err := readAll(t, "type,client,tx,amount\n")

		require.NoError(t, err)
		require.Empty(t, txs)
	})

	t.Run("rejects bad records", func(t *testing.T) {
		tests := []struct {
			name     string
			row      string
			expected error
		}{
			{"unknown type", "refund,1,1,1.0", apperrors.ErrKindUnknown},
			{"deposit without amount", "deposit,1,1,", apperrors.ErrAmountMissing},
			{"withdrawal without amount", "withdrawal,1,1,", apperrors.ErrAmountMissing},
			{"amount too precise", "deposit,1,1,1.00001", apperrors.ErrAmountInvalid},
			{"amount not a number", "deposit,1,1,lots", apperrors.ErrAmountInvalid},
			{"client out of range", "deposit,70000,1,1.0", apperrors.ErrRecordMalformed},
			{"transaction id out of range", "deposit,1,5000000000,1.0", apperrors.ErrRecordMalformed},
			{"client blank", "deposit,,1,1.0", apperrors.ErrRecordMalformed},
			{"transaction id blank", "deposit,1,,1.0", apperrors.ErrRecordMalformed},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := readAll(t, "type,client,tx,amount\n"+tt.row+"\n")

				require.Error(t, err, "row %q should be rejected", tt.row)
				require.ErrorIs(t, err, tt.expected)
			})
		}
	})
}

func TestReader_Header(t *testing.T) {
	t.Run("missing required column", func(t *testing.T) {
		_, err := NewReader(strings.NewReader("type,client,amount\ndeposit,1,1.0\n"))

		require.Error(t, err, "header without tx column should be rejected")
		require.ErrorIs(t, err, apperrors.ErrRecordMalformed)
	})

	t.Run("empty input", func(t *testing.T) {
		_, err := NewReader(strings.NewReader(""))

		require.Error(t, err, "empty input has no header")
	})
}
