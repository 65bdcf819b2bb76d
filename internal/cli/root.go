package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/noah-isme/semak-karangan-api/internal/config"
	"github.com/noah-isme/semak-karangan-api/internal/database"
	"github.com/noah-isme/semak-karangan-api/internal/repository"
	"github.com/noah-isme/semak-karangan-api/internal/service"
	"github.com/noah-isme/semak-karangan-api/pkg/ai"
)

// App carries what the commands share. Oracle is built from the configured AI
// provider when left nil.
type App struct {
	Config config.Config
	Logger zerolog.Logger
	Oracle service.Oracle
	Out    io.Writer

	db *gorm.DB
}

// NewRootCommand assembles the semakctl command tree.
func NewRootCommand(app *App) *cobra.Command {
	if app.Out == nil {
		app.Out = os.Stdout
	}

	root := &cobra.Command{
		Use:           "semakctl",
		Short:         "Operate the karangan marking service from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(app.Out)

	root.AddCommand(
		newAnalyseCommand(app),
		newCreditsCommand(app),
		newMigrateCommand(app),
	)
	return root
}

func (a *App) database() (*gorm.DB, error) {
	if a.db != nil {
		return a.db, nil
	}

	db, err := database.Connect(a.Config.DatabaseURL)
	if err != nil {
		return nil, err
	}
	a.db = db
	return db, nil
}

// Close releases the database handle opened by any command.
func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	sqlDB, err := a.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (a *App) oracle() (service.Oracle, error) {
	if a.Oracle != nil {
		return a.Oracle, nil
	}

	completer, err := ai.NewCompleter(ai.ProviderConfig{
		Provider:     a.Config.AIProvider,
		Model:        a.Config.AIModel,
		OpenAIKey:    a.Config.OpenAIAPIKey,
		AnthropicKey: a.Config.AnthropicAPIKey,
		GeminiKey:    a.Config.GeminiAPIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("create ai backend: %w", err)
	}
	grader, err := ai.NewGrader(completer, a.Logger)
	if err != nil {
		return nil, err
	}
	a.Oracle = grader
	return grader, nil
}

func (a *App) creditService() (service.CreditService, error) {
	db, err := a.database()
	if err != nil {
		return nil, err
	}
	return service.NewCreditService(repository.NewCreditRepository(db), a.Logger), nil
}
