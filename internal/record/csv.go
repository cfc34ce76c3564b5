package record

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finplan-dev/finplan/internal/model"
)

// DateFormat is the default layout for record dates.
const DateFormat = "2006-01-02 15:04"

// ItemHeader is the CSV header for items.csv.
const ItemHeader = "id,date,product,description,location,reference,cost,urgency,value,price_comp,effect,justification,recurrence,overall_score"

const (
	itemFields    = 14
	colItemID     = 0
	colItemDate   = 1
	colProduct    = 2
	colItemDesc   = 3
	colLocation   = 4
	colItemRef    = 5
	colCost       = 6
	colUrgency    = 7
	colValue      = 8
	colPriceComp  = 9
	colEffect     = 10
	colJust       = 11
	colRecurrence = 12
	colScore      = 13
)

// MoneyHeader is the CSV header for money.csv.
const MoneyHeader = "id,date,entry_type,source_or_destination,amount,notes,linked_item_id"

const (
	moneyFields   = 7
	colMoneyID    = 0
	colMoneyDate  = 1
	colEntryType  = 2
	colSourceDest = 3
	colAmount     = 4
	colNotes      = 5
	colLinkedItem = 6
)

// Codec maps records to and from CSV rows. The date layout is configurable;
// Now supplies the fallback timestamp for unparsable dates.
type Codec struct {
	DateLayout string
	Now        func() time.Time
}

// NewCodec returns a Codec for the given date layout, defaulting to
// DateFormat when empty.
func NewCodec(layout string) Codec {
	if layout == "" {
		layout = DateFormat
	}
	return Codec{DateLayout: layout, Now: time.Now}
}

// parseDateOrNow parses value against the configured layout, substituting the
// current time when it does not parse. Older files stay loadable after a
// format change; the trade-off is that such rows silently re-date themselves.
func (c Codec) parseDateOrNow(value string) time.Time {
	t, err := time.ParseInLocation(c.DateLayout, value, time.Local)
	if err != nil {
		return c.Now()
	}
	return t
}

// ReadItems reads all item records from an items.csv reader.
func (c Codec) ReadItems(r io.Reader) ([]model.ItemRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = itemFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, &MalformedRecordError{Err: err}
	}
	if len(records) == 0 {
		return nil, nil
	}

	// Skip header row.
	var items []model.ItemRecord
	for i, rec := range records[1:] {
		item, err := c.UnmarshalItem(rec)
		if err != nil {
			return nil, &MalformedRecordError{Line: i + 2, Err: err}
		}
		items = append(items, item)
	}
	return items, nil
}

// WriteItems writes item records to an items.csv writer (including header).
func (c Codec) WriteItems(w io.Writer, items []model.ItemRecord) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(ItemHeader, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, item := range items {
		if err := cw.Write(c.MarshalItem(item)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

// ReadMoney reads all money records from a money.csv reader.
func (c Codec) ReadMoney(r io.Reader) ([]model.MoneyRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = moneyFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, &MalformedRecordError{Err: err}
	}
	if len(records) == 0 {
		return nil, nil
	}

	var entries []model.MoneyRecord
	for i, rec := range records[1:] {
		entry, err := c.UnmarshalMoney(rec)
		if err != nil {
			return nil, &MalformedRecordError{Line: i + 2, Err: err}
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// WriteMoney writes money records to a money.csv writer (including header).
func (c Codec) WriteMoney(w io.Writer, entries []model.MoneyRecord) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(MoneyHeader, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, entry := range entries {
		if err := cw.Write(c.MarshalMoney(entry)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

// MarshalItem converts an ItemRecord to a CSV row.
func (c Codec) MarshalItem(item model.ItemRecord) []string {
	row := make([]string, itemFields)
	row[colItemID] = item.ID.String()
	row[colItemDate] = item.Date.Format(c.DateLayout)
	row[colProduct] = item.Product
	row[colItemDesc] = item.Description
	row[colLocation] = item.Location
	row[colItemRef] = item.Reference
	row[colCost] = item.Cost.StringFixed(2)
	row[colUrgency] = strconv.Itoa(item.Urgency)
	row[colValue] = strconv.Itoa(item.Value)
	row[colPriceComp] = strconv.Itoa(item.PriceComp)
	row[colEffect] = strconv.Itoa(item.Effect)
	row[colJust] = item.Justification
	row[colRecurrence] = item.Recurrence

	if item.OverallScore.Valid {
		row[colScore] = item.OverallScore.Decimal.StringFixed(2)
	}
	return row
}

// UnmarshalItem converts a CSV row to an ItemRecord.
func (c Codec) UnmarshalItem(record []string) (model.ItemRecord, error) {
	if len(record) != itemFields {
		return model.ItemRecord{}, fmt.Errorf("expected %d fields, got %d", itemFields, len(record))
	}

	id, err := uuid.Parse(record[colItemID])
	if err != nil {
		return model.ItemRecord{}, fmt.Errorf("parsing id %q: %w", record[colItemID], err)
	}

	cost, err := decimal.NewFromString(record[colCost])
	if err != nil {
		return model.ItemRecord{}, fmt.Errorf("parsing cost %q: %w", record[colCost], err)
	}

	ratings := make([]int, 4)
	for i, col := range []int{colUrgency, colValue, colPriceComp, colEffect} {
		ratings[i], err = strconv.Atoi(record[col])
		if err != nil {
			return model.ItemRecord{}, fmt.Errorf("parsing rating %q: %w", record[col], err)
		}
	}

	var score decimal.NullDecimal
	if record[colScore] != "" {
		score.Decimal, err = decimal.NewFromString(record[colScore])
		if err != nil {
			return model.ItemRecord{}, fmt.Errorf("parsing overall_score %q: %w", record[colScore], err)
		}
		score.Valid = true
	}

	return model.ItemRecord{
		ID:            id,
		Date:          c.parseDateOrNow(record[colItemDate]),
		Product:       record[colProduct],
		Description:   record[colItemDesc],
		Location:      record[colLocation],
		Reference:     record[colItemRef],
		Cost:          cost,
		Urgency:       ratings[0],
		Value:         ratings[1],
		PriceComp:     ratings[2],
		Effect:        ratings[3],
		Justification: record[colJust],
		Recurrence:    record[colRecurrence],
		OverallScore:  score,
	}, nil
}

// MarshalMoney converts a MoneyRecord to a CSV row.
func (c Codec) MarshalMoney(entry model.MoneyRecord) []string {
	row := make([]string, moneyFields)
	row[colMoneyID] = entry.ID.String()
	row[colMoneyDate] = entry.Date.Format(c.DateLayout)
	row[colEntryType] = string(entry.EntryType)
	row[colSourceDest] = entry.SourceOrDestination
	row[colAmount] = entry.Amount.StringFixed(2)
	row[colNotes] = entry.Notes

	if entry.LinkedItemID.Valid {
		row[colLinkedItem] = entry.LinkedItemID.UUID.String()
	}
	return row
}

// UnmarshalMoney converts a CSV row to a MoneyRecord.
func (c Codec) UnmarshalMoney(record []string) (model.MoneyRecord, error) {
	if len(record) != moneyFields {
		return model.MoneyRecord{}, fmt.Errorf("expected %d fields, got %d", moneyFields, len(record))
	}

	id, err := uuid.Parse(record[colMoneyID])
	if err != nil {
		return model.MoneyRecord{}, fmt.Errorf("parsing id %q: %w", record[colMoneyID], err)
	}

	amount, err := decimal.NewFromString(record[colAmount])
	if err != nil {
		return model.MoneyRecord{}, fmt.Errorf("parsing amount %q: %w", record[colAmount], err)
	}

	var linked uuid.NullUUID
	if record[colLinkedItem] != "" {
		linked.UUID, err = uuid.Parse(record[colLinkedItem])
		if err != nil {
			return model.MoneyRecord{}, fmt.Errorf("parsing linked_item_id %q: %w", record[colLinkedItem], err)
		}
		linked.Valid = true
	}

	return model.MoneyRecord{
		ID:                  id,
		Date:                c.parseDateOrNow(record[colMoneyDate]),
		EntryType:           model.EntryType(record[colEntryType]),
		SourceOrDestination: record[colSourceDest],
		Amount:              amount,
		Notes:               record[colNotes],
		LinkedItemID:        linked,
	}, nil
}
