package main

import (
	"context"
	"fmt"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"ethiopicker/internal/capture"
	"ethiopicker/internal/config"
	"ethiopicker/internal/ethiopic"
	appLog "ethiopicker/internal/log"
	"ethiopicker/internal/model"
	"ethiopicker/internal/web"
)

func newServeCommand() *cobra.Command {
	var (
		configPath string
		listen     string
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the widget server",
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("load config %s: %w", configPath, err)
			}
			// --listen overrides the config file.
			if listen != "" {
				conf.Listen = listen
			}

			level, err := appLog.ParseLevel(conf.Log.Level)
			if err != nil {
				return err
			}
			if err := appLog.Init(level, conf.Log.Format); err != nil {
				return err
			}

			appLog.Info("ethiopicker starting",
				"version", version,
				"listen", conf.Listen,
				"timezone", conf.Timezone,
				"enable_ethiopian", conf.Picker.EnableEthiopian,
				"show_time_picker", conf.Picker.ShowTimePicker,
				"year_range", conf.Picker.YearRange,
				"basic_auth", conf.BasicAuth != nil,
			)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if err := web.StartServer(ctx, conf); err != nil {
				return err
			}
			appLog.Info("ethiopicker exiting")
			return nil
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "/etc/ethiopicker/config.yaml", "Path to config file")
	cmd.Flags().StringVar(&listen, "listen", "", "HTTP listen address (overrides config if set)")
	return cmd
}

func newConvertCommand() *cobra.Command {
	var to string
	cmd := &cobra.Command{
		Use:   "convert <yyyy-mm-dd>",
		Short: "Convert a date between the Gregorian and Ethiopian calendars",
		Example: `  ethiopicker convert --to ethiopian 2024-09-11
  ethiopicker convert --to gregorian 2017-01-01`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := model.ParseCalendarMode(to)
			if err != nil {
				return err
			}
			out, err := convertDate(mode, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().StringVar(&to, "to", string(model.Ethiopian), "Target calendar (ethiopian or gregorian)")
	return cmd
}

// convertDate converts a yyyy-mm-dd date into the target calendar. The
// input is read in the other calendar.
func convertDate(to model.CalendarMode, arg string) (string, error) {
	y, m, d, err := splitDate(arg)
	if err != nil {
		return "", err
	}
	switch to {
	case model.Ethiopian:
		et, err := ethiopic.FromGregorian(y, time.Month(m), d)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%04d-%02d-%02d (%s, %s)", et.Year, et.Month, et.Day, et, ethiopic.Weekday(et)), nil
	default:
		gy, gm, gd, err := ethiopic.ToGregorian(ethiopic.Date{Year: y, Month: m, Day: d})
		if err != nil {
			return "", err
		}
		g := time.Date(gy, gm, gd, 0, 0, 0, 0, time.UTC)
		return fmt.Sprintf("%s (%s)", g.Format(time.DateOnly), g.Format("Monday, January 2, 2006")), nil
	}
}

// splitDate parses yyyy-mm-dd without calendar validation, since Ethiopian
// dates such as 2015-13-06 are not valid Gregorian dates.
func splitDate(s string) (int, int, int, error) {
	parts := strings.Split(strings.TrimSpace(s), "-")
	if len(parts) != 3 {
		return 0, 0, 0, fmt.Errorf("%w: %q, expected yyyy-mm-dd", ethiopic.ErrInvalidDate, s)
	}
	var out [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return 0, 0, 0, fmt.Errorf("%w: %q, expected yyyy-mm-dd", ethiopic.ErrInvalidDate, s)
		}
		out[i] = n
	}
	return out[0], out[1], out[2], nil
}

func newSnapshotCommand() *cobra.Command {
	var opts capture.Options
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Save a PNG of a widget page using headless Chromium",
		Example: `  ethiopicker snapshot --url http://127.0.0.1:8080/widgets/<id> --out widget.png`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return capture.WriteWidgetPNG(ctx, opts)
		},
	}
	cmd.Flags().StringVar(&opts.URL, "url", "", "Widget page URL")
	cmd.Flags().StringVar(&opts.OutputPath, "out", "widget.png", "Output PNG path")
	cmd.Flags().StringVar(&opts.Selector, "selector", capture.DefaultSelector, "Element to wait for and capture")
	cmd.Flags().IntVar(&opts.Width, "width", capture.DefaultWidth, "Viewport width in pixels")
	cmd.Flags().IntVar(&opts.Height, "height", capture.DefaultHeight, "Viewport height in pixels")
	cmd.Flags().DurationVar(&opts.Timeout, "timeout", capture.DefaultTimeout, "Capture timeout")
	cmd.Flags().StringVar(&opts.ExecPath, "chrome", "", "Chromium binary (default: search PATH)")
	_ = cmd.MarkFlagRequired("url")
	return cmd
}
