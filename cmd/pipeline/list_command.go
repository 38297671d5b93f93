package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/meetings-backend/internal/domain"
)

type artifactLister interface {
	List(ctx context.Context, filter domain.ArtifactFilter) ([]*domain.MeetingArtifact, int, error)
}

type listPage struct {
	Items    []*domain.MeetingArtifact `json:"items"`
	Total    int                       `json:"total"`
	Page     int                       `json:"page"`
	PageSize int                       `json:"page_size"`
}

func (c *commandContext) lister(ctx context.Context) (artifactLister, error) {
	deps, err := c.ensureDeps(ctx)
	if err != nil {
		return nil, err
	}
	return deps.Artifacts, nil
}

func newListCommand(ctx *commandContext) *cobra.Command {
	return newListCommandWith(ctx.lister)
}

func newListCommandWith(resolve func(context.Context) (artifactLister, error)) *cobra.Command {
	var (
		owner, status, name, from, to string
		page, pageSize                int
		asJSON                        bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List meeting artifacts across owners",
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := domain.ArtifactFilter{
				OwnerEmail:  optional(owner),
				MeetingName: optional(name),
				FromDate:    optional(from),
				ToDate:      optional(to),
				Page:        page,
				PageSize:    pageSize,
			}
			if s := optional(status); s != nil {
				st := domain.ArtifactStatus(strings.ToUpper(*s))
				if !st.IsValid() {
					return fmt.Errorf("unknown status %q", *s)
				}
				filter.Status = &st
			}
			filter = filter.Normalize()

			lister, err := resolve(cmd.Context())
			if err != nil {
				return err
			}
			items, total, err := lister.List(cmd.Context(), filter)
			if err != nil {
				return err
			}
			if items == nil {
				items = []*domain.MeetingArtifact{}
			}

			out := cmd.OutOrStdout()
			if asJSON || !isTerminal(out) {
				return writeJSON(cmd, listPage{Items: items, Total: total, Page: filter.Page, PageSize: filter.PageSize})
			}

			fmt.Fprintln(out, renderArtifacts(items))
			fmt.Fprintf(out, "page %d, %d of %d\n", filter.Page, len(items), total)
			return nil
		},
	}

	cmd.Flags().StringVar(&owner, "owner", "", "Filter by owner email")
	cmd.Flags().StringVar(&status, "status", "", "Filter by status")
	cmd.Flags().StringVar(&name, "meeting-name", "", "Filter by meeting name")
	cmd.Flags().StringVar(&from, "from", "", "Earliest meeting date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "Latest meeting date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&page, "page", 1, "Page number")
	cmd.Flags().IntVar(&pageSize, "page-size", domain.DefaultPageSize, "Items per page")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Write JSON even on a terminal")
	return cmd
}

func renderArtifacts(items []*domain.MeetingArtifact) string {
	rows := make([][]string, 0, len(items))
	for _, a := range items {
		duration := ""
		if a.DurationSec != nil {
			duration = strconv.FormatFloat(*a.DurationSec, 'f', 1, 64)
		}
		errCode := ""
		if a.ErrorCode != nil {
			errCode = *a.ErrorCode
		}
		rows = append(rows, []string{
			a.OwnerEmail, a.MeetingName, a.MeetingDate, a.Filename(),
			string(a.Status), duration, errCode,
			a.UpdatedAt.Format("2006-01-02 15:04"),
		})
	}
	return renderTable(
		[]string{"Owner", "Meeting", "Date", "File", "Status", "Duration", "Error", "Updated"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignLeft, alignLeft},
	)
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
