package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	pb "github.com/godilite/gwa-analytics/api/v1"
	"github.com/godilite/gwa-analytics/internal/chart"
)

const (
	slotDepartments = "department-averages"
	slotFailures    = "failure-rates"
	slotTrend       = "gwa-trend"
)

func dashboardCmd() *cobra.Command {
	var (
		addr      string
		studentID int64
		out       string
		timeout   time.Duration
	)

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Fetch the dashboard charts from the server and write them as one HTML page",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
			if err != nil {
				return fmt.Errorf("connect %s: %w", addr, err)
			}
			defer conn.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			var w io.Writer = cmd.OutOrStdout()
			if out != "" {
				f, err := os.Create(out)
				if err != nil {
					return fmt.Errorf("create %s: %w", out, err)
				}
				defer f.Close()
				w = f
			}
			return buildDashboard(ctx, pb.NewAnalyticsClient(conn), studentID, w)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "localhost:50051", "gRPC server address")
	cmd.Flags().Int64Var(&studentID, "student", 0, "student id for the GWA trend (0 skips it)")
	cmd.Flags().StringVar(&out, "out", "", "HTML output file (default stdout)")
	cmd.Flags().DurationVar(&timeout, "timeout", 15*time.Second, "overall request timeout")
	return cmd
}

// buildDashboard mounts the server rendered charts on a fresh surface and
// writes the page.
func buildDashboard(ctx context.Context, client *pb.AnalyticsClient, studentID int64, w io.Writer) error {
	surface := chart.NewSurface()

	mount := func(slot string, fetch func() (*pb.ChartResponse, error)) error {
		resp, err := fetch()
		if err != nil {
			return fmt.Errorf("fetch %s: %w", slot, err)
		}
		_, err = surface.Mount(slot, resp.Drawing)
		return err
	}

	if err := mount(slotDepartments, func() (*pb.ChartResponse, error) {
		return client.GetDepartmentAverageChart(ctx, pb.ChartRequest{})
	}); err != nil {
		return err
	}
	if err := mount(slotFailures, func() (*pb.ChartResponse, error) {
		return client.GetFailureRateChart(ctx, pb.ChartRequest{})
	}); err != nil {
		return err
	}
	if studentID > 0 {
		if err := mount(slotTrend, func() (*pb.ChartResponse, error) {
			return client.GetTrendChart(ctx, pb.ChartRequest{StudentID: studentID})
		}); err != nil {
			return err
		}
	}

	title := "GWA Dashboard"
	if studentID > 0 {
		title = fmt.Sprintf("GWA Dashboard: student %d", studentID)
	}
	return surface.WriteHTML(w, title)
}
