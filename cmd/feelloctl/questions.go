package main

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/pflag"

	"github.com/infblueocean/feello/internal/question"
	"github.com/infblueocean/feello/internal/remote/postgres"
)

func runMigrate(args []string) error {
	fs := pflag.NewFlagSet("migrate", pflag.ExitOnError)
	_ = fs.Parse(args)

	ctx := context.Background()
	st, _, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()
	return postgres.Migrate(ctx, st.Pool())
}

func runList(args []string) error {
	fs := pflag.NewFlagSet("list", pflag.ExitOnError)
	theme := fs.StringP("theme", "t", "", "Only list this theme")
	width := fs.Int("width", 60, "Truncate question text to this many characters")
	_ = fs.Parse(args)

	ctx := context.Background()
	st, _, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	var qs []question.Question
	if *theme != "" {
		t, err := question.ParseTheme(*theme)
		if err != nil {
			return err
		}
		qs, err = st.ListTheme(ctx, t)
		if err != nil {
			return err
		}
	} else {
		qs, err = st.List(ctx)
		if err != nil {
			return err
		}
	}

	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "THEME", "CAT", "CREATED", "TEXT")
	for _, q := range qs {
		created := "-"
		if q.CreatedAt != nil {
			created = q.CreatedAt.Local().Format("2006-01-02 15:04")
		}
		tbl.Row(q.ID, string(q.Theme), q.Category, created, truncate(q.Text, *width))
	}
	fmt.Println(tbl.Render())
	fmt.Printf("%d questions\n", len(qs))
	return nil
}

func runAdd(args []string) error {
	fs := pflag.NewFlagSet("add", pflag.ExitOnError)
	theme := fs.StringP("theme", "t", "", "Theme key (orange, dark-green, olive, pink, purple)")
	category := fs.StringP("category", "c", "", "Category label (default: the theme's letter)")
	tagline := fs.String("tagline", "", "Tagline (default: the theme's tagline)")
	text := fs.StringP("text", "x", "", "Question text")
	_ = fs.Parse(args)

	t, err := question.ParseTheme(*theme)
	if err != nil {
		return err
	}
	d := question.Draft{Theme: t, Category: *category, Tagline: *tagline, Text: *text}.Normalize()
	if err := d.Validate(); err != nil {
		return err
	}

	ctx := context.Background()
	st, _, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	id, err := st.Add(ctx, d)
	if err != nil {
		return err
	}
	fmt.Println(id)
	return nil
}

func runUpdate(args []string) error {
	fs := pflag.NewFlagSet("update", pflag.ExitOnError)
	theme := fs.StringP("theme", "t", "", "New theme key")
	category := fs.StringP("category", "c", "", "New category label")
	tagline := fs.String("tagline", "", "New tagline")
	text := fs.StringP("text", "x", "", "New question text")
	_ = fs.Parse(args)

	id, err := oneArg(fs.Args(), "question id")
	if err != nil {
		return err
	}

	var p question.Patch
	if fs.Changed("theme") {
		t, err := question.ParseTheme(*theme)
		if err != nil {
			return err
		}
		p.Theme = &t
	}
	if fs.Changed("category") {
		p.Category = category
	}
	if fs.Changed("tagline") {
		p.Tagline = tagline
	}
	if fs.Changed("text") {
		p.Text = text
	}
	if p.Empty() {
		return fmt.Errorf("nothing to update: pass at least one of --theme, --category, --tagline, --text")
	}
	if err := p.Validate(); err != nil {
		return err
	}

	ctx := context.Background()
	st, _, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.Update(ctx, id, p); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "updated %s\n", id)
	return nil
}

func runDelete(args []string) error {
	fs := pflag.NewFlagSet("delete", pflag.ExitOnError)
	_ = fs.Parse(args)

	id, err := oneArg(fs.Args(), "question id")
	if err != nil {
		return err
	}

	ctx := context.Background()
	st, _, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.Delete(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "deleted %s\n", id)
	return nil
}
