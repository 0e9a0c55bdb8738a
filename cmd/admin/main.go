// cmd/admin/main.go
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"go_4_sight_reader/internal/config"
	"go_4_sight_reader/internal/model"
	"go_4_sight_reader/internal/repository"
	"go_4_sight_reader/internal/service"
)

// configPath は config.yaml を探すディレクトリです。
var configPath string

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "sight-reader-admin",
		Short:         "Maintenance commands for the sight-reader server",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "configs", "directory containing config.yaml")

	root.AddCommand(
		newHashPasswordCmd(),
		newHistoryCmd(),
		newExportHistoryCmd(),
		newAddWordCmd(),
		newImportWordsCmd(),
	)
	return root
}

// newHashPasswordCmd は auth.admin_password_hash に設定する bcrypt ハッシュを出力します。
// 引数がなければ標準入力の1行目を使います。
func newHashPasswordCmd() *cobra.Command {
	var cost int
	cmd := &cobra.Command{
		Use:   "hash-password [password]",
		Short: "Print a bcrypt hash for auth.admin_password_hash",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var password string
			if len(args) == 1 {
				password = args[0]
			} else {
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("read password: %w", err)
				}
				password = strings.TrimRight(line, "\r\n")
			}
			if password == "" {
				return errors.New("password must not be empty")
			}
			hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
			if err != nil {
				return fmt.Errorf("hash password: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(hash))
			return nil
		},
	}
	cmd.Flags().IntVar(&cost, "cost", bcrypt.DefaultCost, "bcrypt cost")
	return cmd
}

// openHistory は設定を読み込んで履歴リポジトリを開きます。close で接続を閉じます。
func openHistory() (repository.HistoryRepository, func(), error) {
	if err := config.LoadConfig(configPath); err != nil {
		return nil, nil, err
	}
	db, err := repository.NewDB(config.Cfg.Database, slog.Default())
	if err != nil {
		return nil, nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, err
	}
	return repository.NewGormHistoryRepository(db), func() { sqlDB.Close() }, nil
}

func checkLimit(limit int) error {
	if limit < 1 || limit > service.MaxHistoryLimit {
		return fmt.Errorf("limit must be between 1 and %d", service.MaxHistoryLimit)
	}
	return nil
}

// newHistoryCmd は完了したセッションの履歴を新しい順に表示します。
func newHistoryCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recently completed flashcard sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkLimit(limit); err != nil {
				return err
			}
			repo, closeDB, err := openHistory()
			if err != nil {
				return err
			}
			defer closeDB()

			records, err := repo.ListRecent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(records) == 0 {
				fmt.Fprintln(out, "no completed sessions")
				return nil
			}
			for _, r := range records {
				source := string(r.Source)
				if r.Slug != "" {
					source += ":" + r.Slug
				}
				fmt.Fprintf(out, "%s  %-10s  words=%d cards=%d revisits=%d  (%s)\n",
					r.CompletedAt.Local().Format("2006-01-02 15:04"),
					source,
					r.WordsPlanned,
					r.CardsShown,
					r.RevisitsShown,
					r.CompletedAt.Sub(r.StartedAt).Round(time.Second),
				)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", service.DefaultHistoryLimit, "number of sessions to show")
	return cmd
}

// newExportHistoryCmd は履歴を .xlsx に書き出します。
func newExportHistoryCmd() *cobra.Command {
	var (
		limit int
		out   string
	)
	cmd := &cobra.Command{
		Use:   "export-history",
		Short: "Export recently completed sessions to an Excel workbook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkLimit(limit); err != nil {
				return err
			}
			repo, closeDB, err := openHistory()
			if err != nil {
				return err
			}
			defer closeDB()

			records, err := repo.ListRecent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if err := writeHistoryWorkbook(out, records); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d sessions to %s\n", len(records), out)
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", service.MaxHistoryLimit, "number of sessions to export")
	cmd.Flags().StringVarP(&out, "out", "o", "history.xlsx", "output file")
	return cmd
}

// addWords は words を順に追加し、追加できた数を返します。重複などはスキップして表示します。
func addWords(ctx context.Context, out io.Writer, category string, words []string) (int, error) {
	if err := config.LoadConfig(configPath); err != nil {
		return 0, err
	}
	repo := repository.NewFileWordListRepository(config.Cfg.Content.Dir)
	svc := service.NewWordService(repo, service.NewWordCache(repo))

	added := 0
	for _, w := range words {
		resp, err := svc.AddWord(ctx, &model.AddWordRequest{Word: w, Category: category})
		if err != nil {
			var appErr *model.AppError
			if errors.As(err, &appErr) {
				fmt.Fprintf(out, "skip %q: %s\n", w, appErr.Detail.Message)
				continue
			}
			return added, err
		}
		fmt.Fprintf(out, "added %q to %s\n", resp.Word, resp.Category)
		added++
	}
	return added, nil
}

// newAddWordCmd はサーバーを通さずに単語リストへ単語を追加します。
// 動作中のサーバーのキャッシュには POST /api/v1/words/reload で反映します。
func newAddWordCmd() *cobra.Command {
	var category string
	cmd := &cobra.Command{
		Use:   "add-word <word>...",
		Short: "Append words to a word list file",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			added, err := addWords(cmd.Context(), cmd.OutOrStdout(), category, args)
			if err != nil {
				return err
			}
			if added == 0 {
				return errors.New("no words were added")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&category, "category", string(model.CategoryAll), "word list: all, small or big")
	return cmd
}

// newImportWordsCmd は .xlsx / .csv の1列目を単語リストに取り込みます。
func newImportWordsCmd() *cobra.Command {
	var category, sheet string
	cmd := &cobra.Command{
		Use:   "import-words <file>",
		Short: "Import words from the first column of an .xlsx or .csv file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			words, err := readWordColumn(args[0], sheet)
			if err != nil {
				return err
			}
			if len(words) == 0 {
				return fmt.Errorf("no words found in %s", args[0])
			}
			added, err := addWords(cmd.Context(), cmd.OutOrStdout(), category, words)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d of %d words\n", added, len(words))
			return nil
		},
	}
	cmd.Flags().StringVar(&category, "category", string(model.CategoryAll), "word list: all, small or big")
	cmd.Flags().StringVar(&sheet, "sheet", "", "sheet name (default: first sheet)")
	return cmd
}
