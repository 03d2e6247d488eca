package cmd

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/lucky-universe/internal/fortune"
	"github.com/ziadkadry99/lucky-universe/internal/progress"
	"github.com/ziadkadry99/lucky-universe/internal/share"
	"github.com/ziadkadry99/lucky-universe/internal/slot"
	"github.com/ziadkadry99/lucky-universe/internal/talisman"
)

var (
	fortuneUser fortune.UserData
	fortuneWish string
	fortuneHTML string
	fortuneSlot bool
)

var fortuneCmd = &cobra.Command{
	Use:   "fortune",
	Short: "Read your 2026 fortune in the terminal",
	Long: `Generates a 2026 fortune reading and prints it as Markdown. Missing
inputs are asked for interactively. With --wish a talisman is drawn too, and
--html writes a shareable page.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		u := fortuneUser
		if u.BirthDate == "" {
			if u, err = promptUserData(u); err != nil {
				return err
			}
		}
		if u, err = fortune.Prepare(u); err != nil {
			return err
		}
		if fortuneWish != "" {
			if err := fortune.ValidateWish(fortuneWish); err != nil {
				return err
			}
		}

		provider, status := buildProvider(cfg, logger)
		if !status.APIKeyConfigured && status.Warning != "" {
			fmt.Fprintf(os.Stderr, "Warning: %s\n", status.Warning)
		}

		reporter := progress.NewReporter(os.Stderr)
		reporter.Start("운명을 읽는 중...")
		gen := fortune.NewGenerator(provider, cfg.Model, logger)
		rec, err := gen.Generate(cmd.Context(), u)
		if err != nil {
			reporter.Finish("")
			return fmt.Errorf("generating fortune: %w", err)
		}

		var img *talisman.Image
		if fortuneWish != "" {
			reporter.Update("부적을 그리는 중...")
			tg := talisman.NewGenerator(provider, cfg.Model, cfg.ImageModel, logger)
			img, err = tg.Generate(cmd.Context(), fortuneWish, u)
			if err != nil {
				reporter.Finish("")
				return fmt.Errorf("generating talisman: %w", err)
			}
		}
		reporter.Finish("")

		out := cmd.OutOrStdout()
		fmt.Fprint(out, share.Markdown(rec, u))

		if fortuneSlot {
			final := slot.NewMachine(nil).WithFrames(0).Spin(rec.Daily.Lotto, rec.Daily.Initial).Final
			fmt.Fprintf(out, "\n🎰 %v %s\n", final.Numbers, final.Initial)
		}
		if img != nil {
			fmt.Fprintf(out, "\n## 부적\n\n%s (%s)\n", img.Description, img.Source)
		}

		if fortuneHTML != "" {
			page, err := share.HTML(rec, u, img)
			if err != nil {
				return fmt.Errorf("rendering share page: %w", err)
			}
			if err := os.WriteFile(fortuneHTML, page, 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", fortuneHTML, err)
			}
			fmt.Fprintf(os.Stderr, "Share page written to %s\n", fortuneHTML)
		}
		return nil
	},
}

// promptUserData asks for every field that was not given as a flag.
func promptUserData(u fortune.UserData) (fortune.UserData, error) {
	datePrompt := promptui.Prompt{
		Label: "생년월일 (YYYY-MM-DD)",
		Validate: func(s string) error {
			if _, err := time.Parse("2006-01-02", s); err != nil {
				return errors.New("YYYY-MM-DD 형식으로 입력해주세요")
			}
			return nil
		},
	}
	date, err := datePrompt.Run()
	if err != nil {
		return u, fmt.Errorf("birth date: %w", err)
	}
	u.BirthDate = date

	if u.BirthTime == "" {
		timePrompt := promptui.Prompt{
			Label: "태어난 시간 (HH:MM, 모르면 비워두세요)",
			Validate: func(s string) error {
				if s == "" {
					return nil
				}
				if _, err := time.Parse("15:04", s); err != nil {
					return errors.New("HH:MM 형식으로 입력해주세요")
				}
				return nil
			},
		}
		if u.BirthTime, err = timePrompt.Run(); err != nil {
			return u, fmt.Errorf("birth time: %w", err)
		}
	}

	if u.Gender == "" {
		genderPrompt := promptui.Select{
			Label: "성별",
			Items: []string{"female", "male"},
		}
		if _, u.Gender, err = genderPrompt.Run(); err != nil {
			return u, fmt.Errorf("gender: %w", err)
		}
	}

	if u.MBTI == "" {
		mbtiPrompt := promptui.Prompt{
			Label:   "MBTI",
			Default: fortune.DefaultMBTI,
		}
		if u.MBTI, err = mbtiPrompt.Run(); err != nil {
			return u, fmt.Errorf("mbti: %w", err)
		}
	}
	return u, nil
}

func init() {
	fortuneCmd.Flags().StringVar(&fortuneUser.BirthDate, "birth-date", "", "Birth date (YYYY-MM-DD)")
	fortuneCmd.Flags().StringVar(&fortuneUser.BirthTime, "birth-time", "", "Birth time (HH:MM), empty if unknown")
	fortuneCmd.Flags().StringVar(&fortuneUser.Gender, "gender", "", "Gender: female or male (default female)")
	fortuneCmd.Flags().StringVar(&fortuneUser.MBTI, "mbti", "", "MBTI type (default ENFP)")
	fortuneCmd.Flags().StringVar(&fortuneWish, "wish", "", "Also draw a talisman for this wish")
	fortuneCmd.Flags().StringVar(&fortuneHTML, "html", "", "Write a shareable HTML page to this path")
	fortuneCmd.Flags().BoolVar(&fortuneSlot, "slot", false, "Pull the lucky slot lever after the reading")
	rootCmd.AddCommand(fortuneCmd)
}
