package main

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"github.com/wailsapp/wails/v2/pkg/runtime"
	"gorm.io/gorm"

	"docugen/internal/database"
	"docugen/internal/logging"
	"docugen/internal/services"
)

// maxTemplateSize bounds uploaded template files held in memory.
const maxTemplateSize = 20 << 20

// App struct
type App struct {
	ctx context.Context
	db  *gorm.DB
	svc *services.Services
	log *logging.Logger
}

// NewApp creates a new App application struct
func NewApp(db *gorm.DB, svc *services.Services, log *logging.Logger) *App {
	return &App{db: db, svc: svc, log: log}
}

// startup is called when the app starts. The context is saved
// so we can call the runtime methods
func (a *App) startup(ctx context.Context) {
	a.ctx = ctx
	snap := a.svc.Store.Snapshot()
	runtime.LogInfo(ctx, fmt.Sprintf("session restored: %d documents", len(snap.Documents)))
}

// shutdown is called when the app is closing. Clean up resources here.
func (a *App) shutdown(ctx context.Context) {
	a.svc.Session.Shutdown()

	if err := database.Close(a.db); err != nil {
		runtime.LogError(ctx, fmt.Sprintf("failed to close database: %v", err))
	}
	a.log.Sync()
}

// SelectTemplateFile opens a native file picker and attaches the chosen file
// to the session document as its uploaded template. It returns the file
// name, or "" when the dialog was cancelled.
func (a *App) SelectTemplateFile(documentID string) (string, error) {
	path, err := runtime.OpenFileDialog(a.ctx, runtime.OpenDialogOptions{
		Title: "Select Template",
		Filters: []runtime.FileFilter{
			{DisplayName: "Templates (*.md;*.docx;*.txt)", Pattern: "*.md;*.docx;*.txt"},
		},
	})
	if err != nil {
		return "", err
	}
	if path == "" {
		return "", nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	if info.Size() > maxTemplateSize {
		return "", errors.New("template file is larger than 20 MB")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	name := filepath.Base(path)
	if err := a.svc.Session.AttachTemplateFile(documentID, name, mime.TypeByExtension(filepath.Ext(name)), data); err != nil {
		runtime.LogError(a.ctx, fmt.Sprintf("failed to attach template: %v", err))
		return "", err
	}
	return name, nil
}

// OpenExport opens the export link of a backend document in the system
// browser.
func (a *App) OpenExport(backendDocumentID, format string) error {
	u, err := a.svc.Workflow.ExportURL(backendDocumentID, format)
	if err != nil {
		return err
	}
	runtime.BrowserOpenURL(a.ctx, u)
	return nil
}
