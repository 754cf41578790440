package dto_test

import (
	"testing"
	"time"

	"huddle/shared/dto"
	"huddle/shared/model"
	"huddle/shared/timezone"
)

func TestMetadata_FromModel(t *testing.T) {
	createdAt, _ := timezone.Parse("2006-01-02 15:04", "2025-11-20 12:00")
	modifiedAt := createdAt.Add(time.Hour)

	modelMetadata := model.Metadata{
		CreatedAt:  createdAt,
		ModifiedAt: modifiedAt,
		CreatedBy:  "creator",
		ModifiedBy: "modifier",
	}

	metadata := &dto.Metadata{}
	metadata.FromModel(modelMetadata)

	if metadata.CreatedAt != "2025-11-20T12:00:00" {
		t.Errorf("expected CreatedAt to be 2025-11-20T12:00:00, got %s", metadata.CreatedAt)
	}

	if metadata.ModifiedAt != "2025-11-20T13:00:00" {
		t.Errorf("expected ModifiedAt to be 2025-11-20T13:00:00, got %s", metadata.ModifiedAt)
	}

	if metadata.CreatedBy != "creator" {
		t.Errorf("expected CreatedBy to be 'creator', got %s", metadata.CreatedBy)
	}

	if metadata.ModifiedBy != "modifier" {
		t.Errorf("expected ModifiedBy to be 'modifier', got %s", metadata.ModifiedBy)
	}
}

func TestFilter_GetWhereClause(t *testing.T) {
	tests := []struct {
		name      string
		filter    dto.Filter
		wantWhere string
		wantArg   string
	}{
		{
			name: "eq with table",
			filter: dto.Filter{
				Field:    "room_identifier",
				Operator: dto.FilterOperatorEq,
				Value:    "EVEREST",
				Table:    "bookings",
			},
			wantWhere: "bookings.room_identifier = :room_identifier",
			wantArg:   "room_identifier",
		},
		{
			name: "strict less with custom arg name",
			filter: dto.Filter{
				ArgName:  "candidate_end",
				Field:    "start_time",
				Operator: dto.FilterOperatorLess,
				Value:    "2025-11-20 15:00",
				Table:    "bookings",
			},
			wantWhere: "bookings.start_time < :candidate_end",
			wantArg:   "candidate_end",
		},
		{
			name: "strict greater with custom arg name",
			filter: dto.Filter{
				ArgName:  "candidate_start",
				Field:    "end_time",
				Operator: dto.FilterOperatorGreater,
				Value:    "2025-11-20 14:00",
				Table:    "bookings",
			},
			wantWhere: "bookings.end_time > :candidate_start",
			wantArg:   "candidate_start",
		},
		{
			name: "not eq",
			filter: dto.Filter{
				ArgName:  "exclude_id",
				Field:    "id",
				Operator: dto.FilterOperatorNotEq,
				Value:    int64(7),
				Table:    "bookings",
			},
			wantWhere: "bookings.id != :exclude_id",
			wantArg:   "exclude_id",
		},
		{
			name: "greater or equal",
			filter: dto.Filter{
				Field:    "start_time",
				Operator: dto.FilterOperatorGreaterEq,
				Value:    "2025-11-20 00:00",
				Table:    "bookings",
			},
			wantWhere: "bookings.start_time >= :start_time",
			wantArg:   "start_time",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			where, args := tt.filter.GetWhereClause()

			if where != tt.wantWhere {
				t.Errorf("expected where clause %q, got %q", tt.wantWhere, where)
			}

			if _, ok := args[tt.wantArg]; !ok {
				t.Errorf("expected args to contain %q, got %v", tt.wantArg, args)
			}
		})
	}
}

func TestFilterGroup_GetWhereClause(t *testing.T) {
	group := dto.FilterGroup{
		Operator: dto.FilterGroupOperatorAnd,
		Filters: []any{
			dto.Filter{
				Field:    "room_identifier",
				Operator: dto.FilterOperatorEq,
				Value:    "EVEREST",
				Table:    "bookings",
			},
			dto.Filter{
				ArgName:  "candidate_end",
				Field:    "start_time",
				Operator: dto.FilterOperatorLess,
				Value:    "2025-11-20 15:00",
				Table:    "bookings",
			},
			dto.Filter{
				ArgName:  "candidate_start",
				Field:    "end_time",
				Operator: dto.FilterOperatorGreater,
				Value:    "2025-11-20 14:00",
				Table:    "bookings",
			},
		},
	}

	where, args := group.GetWhereClause()

	expected := "(bookings.room_identifier = :room_identifier AND bookings.start_time < :candidate_end AND bookings.end_time > :candidate_start)"
	if where != expected {
		t.Errorf("expected where clause %q, got %q", expected, where)
	}

	if len(args) != 3 {
		t.Errorf("expected 3 args, got %d: %v", len(args), args)
	}
}

func TestFilterGroup_Empty(t *testing.T) {
	group := dto.FilterGroup{Operator: dto.FilterGroupOperatorAnd}

	where, args := group.GetWhereClause()

	if where != "" {
		t.Errorf("expected empty where clause, got %q", where)
	}

	if len(args) != 0 {
		t.Errorf("expected no args, got %v", args)
	}
}

func TestSortDirectionConstants(t *testing.T) {
	if dto.SortDirAsc != "ASC" {
		t.Errorf("expected SortDirAsc to be 'ASC', got %s", dto.SortDirAsc)
	}
	if dto.SortDirDesc != "DESC" {
		t.Errorf("expected SortDirDesc to be 'DESC', got %s", dto.SortDirDesc)
	}
}
