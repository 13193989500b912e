package cli

import (
	"context"
	"strconv"

	"github.com/spf13/cobra"

	"formctl/internal/formsvc"
	"formctl/internal/model"
	"formctl/internal/mutate"
)

func newSectionsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "sections",
		Aliases: []string{"section"},
		Short:   "List and restructure sections",
	}
	cmd.AddCommand(newSectionsListCmd(app))
	cmd.AddCommand(newSectionsAddCmd(app))
	cmd.AddCommand(newSectionsUpdateCmd(app))
	cmd.AddCommand(newSectionsRemoveCmd(app))
	cmd.AddCommand(newSectionsMoveCmd(app))
	return cmd
}

func newSectionsListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "list <form-id>",
		Aliases: []string{"ls"},
		Short:   "List sections with their item ranges",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.withService(cmd, func(ctx context.Context, svc *formsvc.Service) (any, error) {
				return svc.Sections(ctx, args[0])
			})
		},
	}
}

func newSectionsAddCmd(app *App) *cobra.Command {
	var (
		req      formsvc.AddSectionRequest
		position string
	)

	cmd := &cobra.Command{
		Use:   "add <form-id>",
		Short: "Add a section break (default: at the end of the form)",
		Long: `Add a section break.

Without --section the break is appended to the form. With --section and
--position before/after plus --question, the break splits that section at
the question; with --position start/end it goes at the section's start or end.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if req.Section > 0 {
				pos, err := model.ParsePosition(position)
				if err != nil {
					return err
				}
				req.Position = pos
			}
			return app.withService(cmd, func(ctx context.Context, svc *formsvc.Service) (any, error) {
				return svc.AddSection(ctx, args[0], req)
			})
		},
	}

	cmd.Flags().StringVar(&req.Title, "title", "", "Section title")
	cmd.Flags().StringVar(&req.Description, "description", "", "Section description")
	cmd.Flags().IntVar(&req.Section, "section", 0, "Reference section (1-based)")
	cmd.Flags().IntVar(&req.Question, "question", 0, "Reference question within --section (1-based)")
	cmd.Flags().StringVar(&position, "position", "end", "before|after|start|end|form-end")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func newSectionsUpdateCmd(app *App) *cobra.Command {
	var title, description, goTo, goToSection string

	cmd := &cobra.Command{
		Use:   "update <form-id> <section>",
		Short: "Change a section's title, description or navigation",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			section, err := parseNumber("section", args[1])
			if err != nil {
				return err
			}
			var patch mutate.SectionPatch
			if cmd.Flags().Changed("title") {
				patch.Title = &title
			}
			if cmd.Flags().Changed("description") {
				patch.Description = &description
			}
			if cmd.Flags().Changed("go-to") {
				patch.GoToAction = &goTo
			}
			if cmd.Flags().Changed("go-to-section") {
				patch.GoToSectionID = &goToSection
			}
			return app.withService(cmd, func(ctx context.Context, svc *formsvc.Service) (any, error) {
				return svc.UpdateSection(ctx, args[0], section, patch)
			})
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "New title")
	cmd.Flags().StringVar(&description, "description", "", "New description")
	cmd.Flags().StringVar(&goTo, "go-to", "", "Navigation after the section (NEXT_SECTION|RESTART_FORM|SUBMIT_FORM); fixture files only")
	cmd.Flags().StringVar(&goToSection, "go-to-section", "", "Item id of the section break to jump to; fixture files only")
	return cmd
}

func newSectionsRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <form-id> <section>",
		Aliases: []string{"rm"},
		Short:   "Delete a section and everything in it",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			section, err := parseNumber("section", args[1])
			if err != nil {
				return err
			}
			return app.withService(cmd, func(ctx context.Context, svc *formsvc.Service) (any, error) {
				return svc.RemoveSection(ctx, args[0], section)
			})
		},
	}
}

func newSectionsMoveCmd(app *App) *cobra.Command {
	var before, after int

	cmd := &cobra.Command{
		Use:   "move <form-id> <section> (--before N | --after N)",
		Short: "Move a whole section before or after another section",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := parseNumber("section", args[1])
			if err != nil {
				return err
			}
			flag, target, pos := "before", before, model.PositionBefore
			if cmd.Flags().Changed("after") {
				flag, target, pos = "after", after, model.PositionAfter
			}
			if target < 1 {
				return model.InvalidArgument(flag, "want a 1-based section number, got %d", target)
			}
			return app.withService(cmd, func(ctx context.Context, svc *formsvc.Service) (any, error) {
				return svc.MoveSection(ctx, args[0], source, target, pos)
			})
		},
	}

	cmd.Flags().IntVar(&before, "before", 0, "Place the section before this section")
	cmd.Flags().IntVar(&after, "after", 0, "Place the section after this section")
	cmd.MarkFlagsOneRequired("before", "after")
	cmd.MarkFlagsMutuallyExclusive("before", "after")
	return cmd
}

func parseNumber(field, s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, model.InvalidArgument(field, "want a 1-based number, got %q", s)
	}
	return n, nil
}
