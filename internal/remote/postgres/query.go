package postgres

import (
	"github.com/Masterminds/squirrel"

	"github.com/infblueocean/feello/internal/question"
)

const table = "questions"

var columns = []string{"id", "theme", "category", "tagline", "text", "created_at"}

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// selectQuery lists questions newest first; legacy rows without a
// creation time come last. A nil theme selects everything.
func selectQuery(theme *question.Theme) squirrel.SelectBuilder {
	q := psql.Select(columns...).
		From(table).
		OrderBy("created_at DESC NULLS LAST", "id ASC")
	if theme != nil {
		q = q.Where(squirrel.Eq{"theme": string(*theme)})
	}
	return q
}

func insertQuery(d question.Draft) squirrel.InsertBuilder {
	return psql.Insert(table).
		Columns("theme", "category", "tagline", "text").
		Values(string(d.Theme), d.Category, d.Tagline, d.Text).
		Suffix("RETURNING id")
}

func updateQuery(id string, p question.Patch) squirrel.UpdateBuilder {
	q := psql.Update(table).Where(squirrel.Eq{"id": id})
	if p.Theme != nil {
		q = q.Set("theme", string(*p.Theme))
	}
	if p.Category != nil {
		q = q.Set("category", *p.Category)
	}
	if p.Tagline != nil {
		q = q.Set("tagline", *p.Tagline)
	}
	if p.Text != nil {
		q = q.Set("text", *p.Text)
	}
	return q
}

func deleteQuery(id string) squirrel.DeleteBuilder {
	return psql.Delete(table).Where(squirrel.Eq{"id": id})
}
