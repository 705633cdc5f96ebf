package main

import (
	"context"
	"fmt"
	"mime"
	"path"
	"strings"

	"github.com/spf13/cobra"

	"dropline/internal/app"
	"dropline/internal/domain"
)

// mutate runs one child edit and reports the resulting episode.
func mutate(cmd *cobra.Command, gated bool, title, done string, fn func(context.Context, *app.App) (domain.Episode, error)) error {
	return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
		var e domain.Episode
		run := func(ctx context.Context) error {
			var err error
			e, err = fn(ctx, a)
			return err
		}
		var err error
		if gated {
			err = confirm(ctx, a, title, "Enter password to continue", run)
		} else {
			err = run(ctx)
		}
		if err != nil {
			return err
		}
		if jsonOutput() {
			return printJSON(e)
		}
		fmt.Printf("%s (%s)\n", done, e.Name)
		return nil
	})
}

func taskCmd() *cobra.Command {
	t := &cobra.Command{Use: "task", Short: "Edit episode tasks"}
	t.AddCommand(taskAddCmd())
	t.AddCommand(taskStatusCmd())
	t.AddCommand(taskRemoveCmd())
	return t
}

func taskAddCmd() *cobra.Command {
	var task domain.Task
	var category, status string
	cmd := &cobra.Command{
		Use:   "add <episode-id>",
		Short: "Add a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			task.Category = domain.TaskCategory(category)
			task.Status = domain.TaskStatus(status)
			return mutate(cmd, true, "Add Task", "task added", func(ctx context.Context, a *app.App) (domain.Episode, error) {
				return a.Store.AddTask(ctx, args[0], task)
			})
		},
	}
	cmd.Flags().StringVar(&task.Title, "title", "", "task title")
	cmd.Flags().StringVar(&task.Description, "description", "", "description")
	cmd.Flags().StringVar(&category, "category", string(domain.CategoryDesign), "design, production, marketing, content or sales")
	cmd.Flags().StringVar(&status, "status", string(domain.TaskPending), "initial status")
	cmd.Flags().StringVar(&task.DueDate, "due", "", "due date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&task.AssignedTo, "assignee", "", "team member name")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func taskStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status <episode-id> <task-id> <status>",
		Short: "Move a task to a new status",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			status := domain.TaskStatus(args[2])
			if !status.Valid() {
				return fmt.Errorf("unknown task status %q", args[2])
			}
			return mutate(cmd, true, "Update Task", "task "+args[1]+" is now "+args[2], func(ctx context.Context, a *app.App) (domain.Episode, error) {
				return a.Store.SetTaskStatus(ctx, args[0], args[1], status)
			})
		},
	}
	return cmd
}

func taskRemoveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remove <episode-id> <task-id>",
		Short: "Remove a task",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return mutate(cmd, true, "Remove Task", "task removed", func(ctx context.Context, a *app.App) (domain.Episode, error) {
				return a.Store.RemoveTask(ctx, args[0], args[1])
			})
		},
	}
	return cmd
}

func teamCmd() *cobra.Command {
	t := &cobra.Command{Use: "team", Short: "Edit episode team members"}
	t.AddCommand(teamAddCmd())
	t.AddCommand(teamRemoveCmd())
	return t
}

func teamAddCmd() *cobra.Command {
	var m domain.TeamMember
	cmd := &cobra.Command{
		Use:   "add <episode-id>",
		Short: "Add a team member",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(m.Name) == "" {
				return fmt.Errorf("--name required")
			}
			return mutate(cmd, true, "Add Team Member", m.Name+" joined", func(ctx context.Context, a *app.App) (domain.Episode, error) {
				return a.Store.AddTeamMember(ctx, args[0], m)
			})
		},
	}
	cmd.Flags().StringVar(&m.Name, "name", "", "member name")
	cmd.Flags().StringVar(&m.Role, "role", "", "role")
	cmd.Flags().StringVar(&m.Email, "email", "", "email")
	return cmd
}

func teamRemoveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remove <episode-id> <member-id>",
		Short: "Remove a team member",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return mutate(cmd, true, "Remove Team Member", "team member removed", func(ctx context.Context, a *app.App) (domain.Episode, error) {
				return a.Store.RemoveTeamMember(ctx, args[0], args[1])
			})
		},
	}
	return cmd
}

func productCmd() *cobra.Command {
	p := &cobra.Command{Use: "product", Short: "Edit episode products"}
	p.AddCommand(productAddCmd())
	p.AddCommand(productRemoveCmd())
	return p
}

func productAddCmd() *cobra.Command {
	var p domain.Product
	var sold int
	cmd := &cobra.Command{
		Use:   "add <episode-id>",
		Short: "Add a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("sold") {
				p.Sold = &sold
			}
			return mutate(cmd, false, "", "product added", func(ctx context.Context, a *app.App) (domain.Episode, error) {
				return a.Store.AddProduct(ctx, args[0], p)
			})
		},
	}
	cmd.Flags().StringVar(&p.Name, "name", "", "product name")
	cmd.Flags().StringSliceVar(&p.Variants, "variants", nil, "variants, e.g. S,M,L")
	cmd.Flags().IntVar(&p.Quantity, "quantity", 0, "units produced")
	cmd.Flags().Float64Var(&p.Cost, "cost", 0, "unit cost in USD")
	cmd.Flags().Float64Var(&p.Price, "price", 0, "unit price in USD")
	cmd.Flags().IntVar(&sold, "sold", 0, "units sold")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func productRemoveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remove <episode-id> <product-id>",
		Short: "Remove a product",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return mutate(cmd, false, "", "product removed", func(ctx context.Context, a *app.App) (domain.Episode, error) {
				return a.Store.RemoveProduct(ctx, args[0], args[1])
			})
		},
	}
	return cmd
}

func contentCmd() *cobra.Command {
	c := &cobra.Command{Use: "content", Short: "Edit the episode content plan"}
	c.AddCommand(contentAddCmd())
	return c
}

func contentAddCmd() *cobra.Command {
	var item domain.ContentItem
	var typ, platform, status string
	cmd := &cobra.Command{
		Use:   "add <episode-id>",
		Short: "Plan a content item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			item.Type = domain.ContentType(typ)
			item.Platform = domain.Platform(platform)
			item.Status = domain.ContentStatus(status)
			return mutate(cmd, false, "", "content item planned", func(ctx context.Context, a *app.App) (domain.Episode, error) {
				return a.Store.AddContentItem(ctx, args[0], item)
			})
		},
	}
	cmd.Flags().StringVar(&item.Title, "title", "", "title")
	cmd.Flags().StringVar(&typ, "type", string(domain.ContentPhoto), "photo or video")
	cmd.Flags().StringVar(&platform, "platform", string(domain.PlatformInstagram), "instagram, tiktok, youtube or website")
	cmd.Flags().StringVar(&status, "status", string(domain.ContentPlanned), "planned, in-progress or completed")
	cmd.Flags().StringVar(&item.DueDate, "due", "", "due date")
	cmd.Flags().StringVar(&item.Description, "description", "", "description")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func timelineCmd() *cobra.Command {
	t := &cobra.Command{Use: "timeline", Short: "Edit the episode timeline"}
	t.AddCommand(timelineAddCmd())
	return t
}

func timelineAddCmd() *cobra.Command {
	var item domain.TimelineItem
	var status, category string
	cmd := &cobra.Command{
		Use:   "add <episode-id>",
		Short: "Add a timeline item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			item.Status = domain.TimelineStatus(status)
			item.Category = domain.TimelineCategory(category)
			return mutate(cmd, false, "", "timeline item added", func(ctx context.Context, a *app.App) (domain.Episode, error) {
				return a.Store.AddTimelineItem(ctx, args[0], item)
			})
		},
	}
	cmd.Flags().StringVar(&item.Title, "title", "", "title")
	cmd.Flags().StringVar(&item.Date, "date", "", "date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&status, "status", string(domain.TimelineUpcoming), "upcoming, current or completed")
	cmd.Flags().StringVar(&category, "category", string(domain.TimelineMilestone), "milestone, deadline or launch")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func ideaCmd() *cobra.Command {
	i := &cobra.Command{Use: "idea", Short: "Edit the episode idea board"}
	i.AddCommand(ideaAddCmd())
	i.AddCommand(ideaEditCmd())
	i.AddCommand(ideaDeleteCmd())
	return i
}

// parseFiles turns name=url pairs into attachments, guessing the MIME type from the name.
func parseFiles(specs []string) ([]domain.IdeaFile, error) {
	var out []domain.IdeaFile
	for _, s := range specs {
		name, url, ok := strings.Cut(s, "=")
		if !ok || name == "" || url == "" {
			return nil, fmt.Errorf("file %q: expected name=url", s)
		}
		out = append(out, domain.IdeaFile{Name: name, Type: mime.TypeByExtension(path.Ext(name)), URL: url})
	}
	return out, nil
}

func ideaAddCmd() *cobra.Command {
	var idea domain.Idea
	var priority string
	var files []string
	cmd := &cobra.Command{
		Use:   "add <episode-id>",
		Short: "Add an idea",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			attached, err := parseFiles(files)
			if err != nil {
				return err
			}
			idea.Files = attached
			idea.Priority = domain.IdeaPriority(priority)
			return mutate(cmd, false, "", "idea added", func(ctx context.Context, a *app.App) (domain.Episode, error) {
				return a.Store.AddIdea(ctx, args[0], idea)
			})
		},
	}
	cmd.Flags().StringVar(&idea.Title, "title", "", "title")
	cmd.Flags().StringVar(&idea.Description, "description", "", "description")
	cmd.Flags().StringVar(&idea.Category, "category", "", "free-form category")
	cmd.Flags().StringVar(&priority, "priority", string(domain.PriorityMedium), "low, medium or high")
	cmd.Flags().StringArrayVar(&files, "file", nil, "attachment as name=url (repeatable)")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func ideaEditCmd() *cobra.Command {
	var title, description, category, priority string
	var files []string
	cmd := &cobra.Command{
		Use:   "edit <episode-id> <idea-id>",
		Short: "Edit an idea",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return mutate(cmd, false, "", "idea saved", func(ctx context.Context, a *app.App) (domain.Episode, error) {
				e, ok := a.Store.Episode(args[0])
				var idea domain.Idea
				for _, i := range e.Ideas {
					if i.ID == args[1] {
						idea = i
					}
				}
				if !ok || idea.ID == "" {
					return a.Store.UpdateIdea(ctx, args[0], domain.Idea{ID: args[1]})
				}
				flags := cmd.Flags()
				if flags.Changed("title") {
					idea.Title = title
				}
				if flags.Changed("description") {
					idea.Description = description
				}
				if flags.Changed("category") {
					idea.Category = category
				}
				if flags.Changed("priority") {
					idea.Priority = domain.IdeaPriority(priority)
				}
				if flags.Changed("file") {
					attached, err := parseFiles(files)
					if err != nil {
						return domain.Episode{}, err
					}
					idea.Files = append(idea.Files, attached...)
				}
				return a.Store.UpdateIdea(ctx, args[0], idea)
			})
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "title")
	cmd.Flags().StringVar(&description, "description", "", "description")
	cmd.Flags().StringVar(&category, "category", "", "category")
	cmd.Flags().StringVar(&priority, "priority", "", "low, medium or high")
	cmd.Flags().StringArrayVar(&files, "file", nil, "add an attachment as name=url (repeatable)")
	return cmd
}

func ideaDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <episode-id> <idea-id>",
		Short: "Delete an idea",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return mutate(cmd, false, "", "idea deleted", func(ctx context.Context, a *app.App) (domain.Episode, error) {
				return a.Store.DeleteIdea(ctx, args[0], args[1])
			})
		},
	}
	return cmd
}
