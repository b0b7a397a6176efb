// Package pagination turns a filtered gorm query plus skip/limit/sort
// parameters into one page of results and the total of the filtered set.
package pagination

import (
	"context"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/Rakhulsr/go-smartmart/app/apperrors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	DefaultLimit = 10
	MaxLimit     = 100

	SortAsc  = "asc"
	SortDesc = "desc"
)

type Params struct {
	Skip      int
	Limit     int
	SortBy    string
	SortOrder string
}

// SortColumns is the per-entity allow-list mapping public sort keys to
// columns. Default is used when no sort key is given.
type SortColumns struct {
	Columns map[string]string
	Default string
}

func (s SortColumns) keys() []string {
	keys := make([]string, 0, len(s.Columns))
	for k := range s.Columns {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// FromQuery reads skip, limit, sort_by and sort_order. Malformed numbers are
// reported rather than replaced by defaults.
func FromQuery(q url.Values) (Params, error) {
	p := Params{Limit: DefaultLimit, SortBy: q.Get("sort_by"), SortOrder: strings.ToLower(q.Get("sort_order"))}
	if p.SortOrder == "" {
		p.SortOrder = strings.ToLower(q.Get("sort"))
	}

	if raw := q.Get("skip"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return p, apperrors.InvalidArgument("skip must be an integer")
		}
		p.Skip = n
	}
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return p, apperrors.InvalidArgument("limit must be an integer")
		}
		p.Limit = n
	}
	return p, nil
}

// Validate checks the params against the allow-list and fills defaults.
func (p *Params) Validate(cols SortColumns) error {
	if p.Skip < 0 {
		return apperrors.InvalidArgument("skip must be >= 0")
	}
	if p.Limit < 1 || p.Limit > MaxLimit {
		return apperrors.InvalidArgument("limit must be between 1 and %d", MaxLimit)
	}

	switch p.SortOrder {
	case "":
		p.SortOrder = SortAsc
	case SortAsc, SortDesc:
	default:
		return apperrors.InvalidArgument("sort_order must be %q or %q", SortAsc, SortDesc)
	}

	if p.SortBy == "" {
		p.SortBy = cols.Default
	}
	if _, ok := cols.Columns[p.SortBy]; !ok {
		return apperrors.InvalidArgument("cannot sort by %q, allowed: %s", p.SortBy, strings.Join(cols.keys(), ", "))
	}
	return nil
}

// Paginate counts the filtered query, then orders and slices it. The id
// column breaks ties so consecutive pages never overlap.
func Paginate[T any](ctx context.Context, query *gorm.DB, p Params, cols SortColumns) ([]T, int64, error) {
	if err := p.Validate(cols); err != nil {
		return nil, 0, err
	}

	var total int64
	if err := query.Session(&gorm.Session{}).WithContext(ctx).Count(&total).Error; err != nil {
		return nil, 0, apperrors.Storage(err)
	}

	items := make([]T, 0)
	if int64(p.Skip) >= total {
		return items, total, nil
	}

	column := cols.Columns[p.SortBy]
	desc := p.SortOrder == SortDesc
	order := []clause.OrderByColumn{{Column: clause.Column{Name: column}, Desc: desc}}
	if column != "id" {
		order = append(order, clause.OrderByColumn{Column: clause.Column{Name: "id"}, Desc: desc})
	}

	err := query.Session(&gorm.Session{}).WithContext(ctx).
		Order(clause.OrderBy{Columns: order}).
		Offset(p.Skip).
		Limit(p.Limit).
		Find(&items).Error
	if err != nil {
		return nil, 0, apperrors.Storage(err)
	}
	return items, total, nil
}
