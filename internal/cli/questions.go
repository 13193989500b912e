package cli

import (
	"context"
	"strconv"

	"github.com/spf13/cobra"

	"formctl/internal/formsvc"
	"formctl/internal/model"
)

func newQuestionsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "questions",
		Aliases: []string{"question", "q"},
		Short:   "List, add, edit and move questions",
	}
	cmd.AddCommand(newQuestionsListCmd(app))
	cmd.AddCommand(newQuestionsGetCmd(app))
	cmd.AddCommand(newQuestionsAddCmd(app))
	cmd.AddCommand(newQuestionsUpdateCmd(app))
	cmd.AddCommand(newQuestionsRemoveCmd(app))
	cmd.AddCommand(newQuestionsMoveCmd(app))
	return cmd
}

func newQuestionsListCmd(app *App) *cobra.Command {
	var section int

	cmd := &cobra.Command{
		Use:     "list <form-id>",
		Aliases: []string{"ls"},
		Short:   "List questions in form order",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.withService(cmd, func(ctx context.Context, svc *formsvc.Service) (any, error) {
				return svc.Questions(ctx, args[0], section)
			})
		},
	}

	cmd.Flags().IntVar(&section, "section", 0, "Only this section (1-based; default all)")
	return cmd
}

func newQuestionsGetCmd(app *App) *cobra.Command {
	var number int

	cmd := &cobra.Command{
		Use:   "get <form-id> (<section> <question> | --number N)",
		Short: "Show one question by position or by form-wide number",
		Args:  cobra.RangeArgs(1, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("number") {
				if len(args) != 1 {
					return model.InvalidArgument("", "--number takes no section/question arguments")
				}
				return app.withService(cmd, func(ctx context.Context, svc *formsvc.Service) (any, error) {
					return svc.QuestionByNumber(ctx, args[0], number)
				})
			}
			if len(args) != 3 {
				return model.InvalidArgument("", "want <form-id> <section> <question> or --number")
			}
			section, question, err := parseCoordinate(args[1], args[2])
			if err != nil {
				return err
			}
			return app.withService(cmd, func(ctx context.Context, svc *formsvc.Service) (any, error) {
				return svc.Question(ctx, args[0], section, question)
			})
		},
	}

	cmd.Flags().IntVar(&number, "number", 0, "Form-wide question number (1-based)")
	return cmd
}

func newQuestionsAddCmd(app *App) *cobra.Command {
	var (
		qf       questionFlags
		req      formsvc.AddQuestionRequest
		position string
	)

	cmd := &cobra.Command{
		Use:   "add <form-id>",
		Short: "Add a question",
		Long: `Add a question.

--position end (default) appends to --section; start puts it first in the
section; before/after place it next to --question; form-end appends to the
form. A position that points past the end of a section falls back to the
section end.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pos, err := model.ParsePosition(position)
			if err != nil {
				return err
			}
			req.Position = pos
			if err := (model.Location{Section: req.Section, Question: req.Question, Position: pos}).Validate(); err != nil {
				return err
			}
			base := model.Item{Body: model.QuestionBody{Type: model.QuestionText}}
			item, err := qf.apply(cmd, base)
			if err != nil {
				return err
			}
			if item.Title == "" {
				return model.InvalidArgument("title", "a question needs a title (--title or title: in --from-file)")
			}
			req.Item = item
			return app.withService(cmd, func(ctx context.Context, svc *formsvc.Service) (any, error) {
				return svc.AddQuestion(ctx, args[0], req)
			})
		},
	}

	qf.bind(cmd)
	cmd.Flags().IntVar(&req.Section, "section", 1, "Target section (1-based)")
	cmd.Flags().IntVar(&req.Question, "question", 0, "Reference question for before/after (1-based)")
	cmd.Flags().StringVar(&position, "position", "end", "before|after|start|end|form-end")
	return cmd
}

func newQuestionsUpdateCmd(app *App) *cobra.Command {
	var qf questionFlags

	cmd := &cobra.Command{
		Use:   "update <form-id> <section> <question>",
		Short: "Edit a question; unset flags keep their current value",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			section, question, err := parseCoordinate(args[1], args[2])
			if err != nil {
				return err
			}
			return app.withService(cmd, func(ctx context.Context, svc *formsvc.Service) (any, error) {
				return svc.UpdateQuestion(ctx, args[0], section, question, func(cur model.Item) (model.Item, error) {
					return qf.apply(cmd, cur)
				})
			})
		},
	}

	qf.bind(cmd)
	return cmd
}

func newQuestionsRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <form-id> <section> <question>",
		Aliases: []string{"rm"},
		Short:   "Delete a question",
		Args:    cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			section, question, err := parseCoordinate(args[1], args[2])
			if err != nil {
				return err
			}
			return app.withService(cmd, func(ctx context.Context, svc *formsvc.Service) (any, error) {
				return svc.RemoveQuestion(ctx, args[0], section, question)
			})
		},
	}
}

func newQuestionsMoveCmd(app *App) *cobra.Command {
	var (
		req      formsvc.MoveQuestionRequest
		position string
	)

	cmd := &cobra.Command{
		Use:   "move <form-id> <section> <question> --to-section S [--to-question Q] [--position P]",
		Short: "Move a question within or across sections",
		Long: `Move a question.

--position before/after (default before) places it next to --to-question in
--to-section; start/end place it at the edge of --to-section. Positions are
resolved against the form as it is before the move.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			section, question, err := parseCoordinate(args[1], args[2])
			if err != nil {
				return err
			}
			pos, err := model.ParsePosition(position)
			if err != nil {
				return err
			}
			req.FromSection, req.FromQuestion, req.Position = section, question, pos
			if err := (model.Location{Section: req.ToSection, Question: req.ToQuestion, Position: pos}).Validate(); err != nil {
				return err
			}
			return app.withService(cmd, func(ctx context.Context, svc *formsvc.Service) (any, error) {
				return svc.MoveQuestion(ctx, args[0], req)
			})
		},
	}

	cmd.Flags().IntVar(&req.ToSection, "to-section", 0, "Destination section (1-based)")
	cmd.Flags().IntVar(&req.ToQuestion, "to-question", 0, "Reference question in the destination section")
	cmd.Flags().StringVar(&position, "position", "before", "before|after|start|end")
	_ = cmd.MarkFlagRequired("to-section")
	return cmd
}

func parseCoordinate(section, question string) (int, int, error) {
	s, err := parseNumber("section", section)
	if err != nil {
		return 0, 0, err
	}
	q, err := strconv.Atoi(question)
	if err != nil || q < 1 {
		return 0, 0, model.InvalidArgument("question", "want a 1-based number, got %q", question)
	}
	return s, q, nil
}
