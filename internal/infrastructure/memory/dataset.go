// Package memory implementa los repositorios en memoria a partir de un export
// JSON de colecciones. Se usa como backend de desarrollo y en tests.
package memory

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/casaluarma/luarma-api/internal/domain/entity"
	"github.com/casaluarma/luarma-api/internal/domain/finance"
)

type document = map[string]any

type rawDataset struct {
	Modalities []document `json:"modalities"`
	Classes    []document `json:"classes"`
	Payments   []document `json:"payments"`
	Rentals    []document `json:"rentals"`
	Costs      []document `json:"costs"`
}

// DecodeDataset lee un export JSON de la forma
//
//	{"modalities":[...],"classes":[...],"payments":[...],"rentals":[...],"costs":[...]}
//
// Las fechas sin zona horaria se interpretan en loc. Los documentos sin
// "_id"/"id" reciben un UUID nuevo. Los atributos de los arriendos se conservan
// crudos en Rental.Attrs.
func DecodeDataset(r io.Reader, loc *time.Location) (*entity.Dataset, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var raw rawDataset
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("memory.DecodeDataset: %w", err)
	}

	ds := &entity.Dataset{}
	for _, d := range raw.Modalities {
		ds.Modalities = append(ds.Modalities, &entity.Modality{
			ID:         docID(d),
			Name:       str(d, "name"),
			Price:      nullDecimal(d, "price"),
			TeacherPay: nullDecimal(d, "teacherPay"),
		})
	}
	for _, d := range raw.Classes {
		schedule, _ := finance.ParseDate(d["schedule"], loc)
		isRecurring, _ := d["isRecurring"].(bool)
		ds.Classes = append(ds.Classes, &entity.Class{
			ID:          docID(d),
			Title:       str(d, "title"),
			ModalityID:  ref(d, "modality", "modalityId"),
			Professor:   str(d, "professor"),
			Schedule:    schedule,
			SpaceID:     ref(d, "space", "spaceId"),
			IsRecurring: isRecurring,
		})
	}
	for _, d := range raw.Payments {
		paymentDate, _ := finance.ParseDate(d["paymentDate"], loc)
		createdAt, _ := finance.ParseDate(d["createdAt"], loc)
		ds.Payments = append(ds.Payments, &entity.Payment{
			ID:                   docID(d),
			ClassID:              ref(d, "classId", "class"),
			StudentID:            ref(d, "studentId", "student"),
			ModalityID:           ref(d, "modalityId", "modality"),
			Amount:               nullDecimal(d, "amount"),
			Method:               str(d, "method"),
			PaymentDate:          paymentDate,
			Status:               entity.PaymentStatus(str(d, "status")),
			Sessions:             int(finance.ToNumberOrZero(d["sessions"]).IntPart()),
			TeacherPayPerSession: nullDecimal(d, "teacherPayPerSession"),
			CreatedAt:            createdAt,
		})
	}
	for _, d := range raw.Rentals {
		createdAt, _ := finance.ParseDate(d["createdAt"], loc)
		hours, _ := finance.ToNumberOrZero(d["hours"]).Float64()
		ds.Rentals = append(ds.Rentals, &entity.Rental{
			ID:           docID(d),
			SpaceID:      ref(d, "space", "spaceId"),
			TenantName:   str(d, "tenantName"),
			ActivityName: str(d, "activityName"),
			Hours:        hours,
			CreatedAt:    createdAt,
			Attrs:        d,
		})
	}
	for _, d := range raw.Costs {
		c := &entity.Cost{
			ID:     docID(d),
			Name:   str(d, "name"),
			Amount: nullDecimal(d, "amount"),
			Type:   str(d, "type"),
		}
		if rec := str(d, "recurrence"); rec != "" {
			c.Recurrence = &rec
		}
		if t, ok := finance.ParseDate(d["dateIncurred"], loc); ok {
			c.DateIncurred = &t
		}
		ds.Costs = append(ds.Costs, c)
	}
	return ds, nil
}

// ── Helpers de documentos ─────────────────────────────────────────────────────

func docID(d document) string {
	for _, key := range []string{"_id", "id"} {
		if id := refValue(d[key]); id != "" {
			return id
		}
	}
	return uuid.NewString()
}

// ref devuelve el primer id de referencia no vacío entre keys.
func ref(d document, keys ...string) string {
	for _, key := range keys {
		if id := refValue(d[key]); id != "" {
			return id
		}
	}
	return ""
}

// refValue acepta "id", {"$oid":"id"} o un documento expandido con "_id".
func refValue(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case json.Number:
		return t.String()
	case map[string]any:
		if oid, ok := t["$oid"]; ok {
			return refValue(oid)
		}
		if id, ok := t["_id"]; ok {
			return refValue(id)
		}
	}
	return ""
}

func str(d document, key string) string {
	s, _ := d[key].(string)
	return strings.TrimSpace(s)
}

func nullDecimal(d document, key string) decimal.NullDecimal {
	v, ok := d[key]
	if !ok || v == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(finance.ToNumberOrZero(v))
}
