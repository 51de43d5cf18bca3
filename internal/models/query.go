package models

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Params a QueryBuilder never treats as document filters.
var reservedParams = map[string]bool{
	"searchTerm": true,
	"sort":       true,
	"fields":     true,
	"page":       true,
	"limit":      true,
}

// QueryBuilder assembles a find query from request parameters:
// search across fields, exact-match filters, sort, projection, pagination.
type QueryBuilder struct {
	col    *mongo.Collection
	filter bson.M
	params map[string]string
	sort   bson.D
	proj   bson.D
	page   int
	limit  int
}

func NewQueryBuilder(col *mongo.Collection, base bson.M, params map[string]string) *QueryBuilder {
	filter := bson.M{}
	for k, v := range base {
		filter[k] = v
	}
	if params == nil {
		params = map[string]string{}
	}
	return &QueryBuilder{
		col:    col,
		filter: filter,
		params: params,
		sort:   bson.D{{Key: "created_at", Value: -1}},
		page:   1,
		limit:  10,
	}
}

// Search adds a case-insensitive partial match of the searchTerm param
// against any of the given fields.
func (qb *QueryBuilder) Search(fields []string) *QueryBuilder {
	term := strings.TrimSpace(qb.params["searchTerm"])
	if term == "" || len(fields) == 0 {
		return qb
	}
	escaped := regexp.QuoteMeta(term)
	ors := make([]bson.M, 0, len(fields))
	for _, field := range fields {
		ors = append(ors, bson.M{field: bson.M{"$regex": escaped, "$options": "i"}})
	}
	qb.filter["$or"] = ors
	return qb
}

// Filter copies every non-reserved query param into the filter as an
// exact match.
func (qb *QueryBuilder) Filter() *QueryBuilder {
	for k, v := range qb.params {
		if reservedParams[k] || strings.TrimSpace(v) == "" {
			continue
		}
		qb.filter[k] = v
	}
	return qb
}

// Sort applies the sort param: comma-separated field names, "-" prefix
// for descending. Defaults to newest first.
func (qb *QueryBuilder) Sort() *QueryBuilder {
	raw := strings.TrimSpace(qb.params["sort"])
	if raw == "" {
		return qb
	}
	sort := bson.D{}
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		order := 1
		if strings.HasPrefix(part, "-") {
			order = -1
			part = part[1:]
		}
		sort = append(sort, bson.E{Key: part, Value: order})
	}
	if len(sort) > 0 {
		qb.sort = sort
	}
	return qb
}

// Fields applies the fields param as an inclusion projection.
func (qb *QueryBuilder) Fields() *QueryBuilder {
	raw := strings.TrimSpace(qb.params["fields"])
	if raw == "" {
		return qb
	}
	proj := bson.D{}
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		proj = append(proj, bson.E{Key: part, Value: 1})
	}
	if len(proj) > 0 {
		qb.proj = proj
	}
	return qb
}

// Paginate reads page/limit params, both 1-based with sane defaults.
func (qb *QueryBuilder) Paginate() *QueryBuilder {
	if page, err := strconv.Atoi(qb.params["page"]); err == nil && page > 0 {
		qb.page = page
	}
	if limit, err := strconv.Atoi(qb.params["limit"]); err == nil && limit > 0 {
		qb.limit = limit
	}
	return qb
}

// Build executes the query and decodes all rows of the current page into
// results, which must be a pointer to a slice.
func (qb *QueryBuilder) Build(ctx context.Context, results interface{}) error {
	opts := options.Find().
		SetSort(qb.sort).
		SetSkip(int64((qb.page - 1) * qb.limit)).
		SetLimit(int64(qb.limit))
	if qb.proj != nil {
		opts.SetProjection(qb.proj)
	}

	cursor, err := qb.col.Find(ctx, qb.filter, opts)
	if err != nil {
		return fmt.Errorf("error executing list query: %v", err)
	}
	defer cursor.Close(ctx)

	if err := cursor.All(ctx, results); err != nil {
		return fmt.Errorf("error decoding list results: %v", err)
	}
	return nil
}

// Meta counts the full (unpaginated) result set and derives page info.
func (qb *QueryBuilder) Meta(ctx context.Context) (*Meta, error) {
	total, err := qb.col.CountDocuments(ctx, qb.filter)
	if err != nil {
		return nil, fmt.Errorf("error counting list results: %v", err)
	}
	totalPages := int(math.Ceil(float64(total) / float64(qb.limit)))
	if totalPages < 1 {
		totalPages = 1
	}
	return &Meta{
		Page:       qb.page,
		Limit:      qb.limit,
		Total:      total,
		TotalPages: totalPages,
	}, nil
}
