// Package decoder turns raw CSV rows into validated transactions. The
// engine never sees a malformed record: anything that fails here aborts
// the run before reaching it.
package decoder

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/nkiryanov/payengine/internal/apperrors"
	"github.com/nkiryanov/payengine/internal/models"
)

var validate = validator.New()

// rawRecord is the untyped shape of one CSV row, validated before being
// converted into a models.Transaction
type rawRecord struct {
	Kind   string `validate:"required,oneof=deposit withdrawal dispute resolve chargeback"`
	Client string `validate:"required,number"`
	Tx     string `validate:"required,number"`
	Amount string
}

// Reader decodes transactions from CSV input with a `type,client,tx,amount`
// header. Surrounding whitespace is trimmed; control rows may leave the
// amount column blank or omit it entirely.
type Reader struct {
	csv *csv.Reader

	// Column indexes resolved from the header row; -1 when absent
	kindCol   int
	clientCol int
	txCol     int
	amountCol int
}

func NewReader(r io.Reader) (*Reader, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("can't read header row. Err: %w", err)
	}

	reader := &Reader{
		csv:       cr,
		kindCol:   -1,
		clientCol: -1,
		txCol:     -1,
		amountCol: -1,
	}

	for i, name := range header {
		switch strings.TrimSpace(name) {
		case "type":
			reader.kindCol = i
		case "client":
			reader.clientCol = i
		case "tx":
			reader.txCol = i
		case "amount":
			reader.amountCol = i
		}
	}

	if reader.kindCol < 0 || reader.clientCol < 0 || reader.txCol < 0 {
		return nil, fmt.Errorf("%w: header must contain type, client and tx columns", apperrors.ErrRecordMalformed)
	}

	return reader, nil
}

// Next returns the next transaction, or io.EOF after the last row
func (r *Reader) Next() (models.Transaction, error) {
	row, err := r.csv.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return models.Transaction{}, io.EOF
		}
		return models.Transaction{}, fmt.Errorf("%w: %s", apperrors.ErrRecordMalformed, err)
	}

	field := func(col int) string {
		if col < 0 || col >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[col])
	}

	raw := rawRecord{
		Kind:   field(r.kindCol),
		Client: field(r.clientCol),
		Tx:     field(r.txCol),
		Amount: field(r.amountCol),
	}

	if err := validateRecord(raw); err != nil {
		return models.Transaction{}, err
	}

	return raw.toTransaction()
}

func validateRecord(raw rawRecord) error {
	err := validate.Struct(raw)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		for _, fe := range fieldErrs {
			if fe.Field() == "Kind" && fe.Tag() == "oneof" {
				return fmt.Errorf("%w: %q", apperrors.ErrKindUnknown, fe.Value())
			}
		}
		return fmt.Errorf("%w: field %s failed %q validation", apperrors.ErrRecordMalformed, fieldErrs[0].Field(), fieldErrs[0].Tag())
	}

	return err
}

func (raw rawRecord) toTransaction() (models.Transaction, error) {
	var tx models.Transaction

	client, err := strconv.ParseUint(raw.Client, 10, 16)
	if err != nil {
		return tx, fmt.Errorf("%w: client id %q out of range", apperrors.ErrRecordMalformed, raw.Client)
	}

	id, err := strconv.ParseUint(raw.Tx, 10, 32)
	if err != nil {
		return tx, fmt.Errorf("%w: transaction id %q out of range", apperrors.ErrRecordMalformed, raw.Tx)
	}

	kind := models.TransactionKind(raw.Kind)

	var amount models.Amount
	switch kind {
	case models.KindDeposit, models.KindWithdrawal:
		if raw.Amount == "" {
			return tx, fmt.Errorf("%w on %s, tx %d", apperrors.ErrAmountMissing, kind, id)
		}
		amount, err = models.ParseAmount(raw.Amount)
		if err != nil {
			return tx, err
		}
	}

	return models.NewTransaction(models.TransactionID(id), models.ClientID(client), kind, amount), nil
}
