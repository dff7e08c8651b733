package main

import (
	"os"
	"time"

	"diagram-annotator/internal/api"
	"diagram-annotator/internal/app"
	"diagram-annotator/internal/config"
	"diagram-annotator/internal/storage"
	"diagram-annotator/internal/store"
	"diagram-annotator/ui/mainwindow"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const appName = "diagram-annotator"

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	dataDir := storage.DefaultDir(appName)
	if err := config.Load(dataDir); err != nil {
		log.Fatal().Err(err).Msg("could not load configuration")
	}
	if dir := config.GetString("dataDir"); dir != "" {
		dataDir = dir
	}

	level, err := zerolog.ParseLevel(config.GetString("logLevel"))
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	port, err := storage.NewFileStore(dataDir)
	if err != nil {
		log.Fatal().Err(err).Str("dir", dataDir).Msg("could not open annotation storage")
	}

	st := store.New(port, log.Logger)
	state := app.NewState(st)

	var apiClient *api.Client
	if serverURL := config.GetString("api.serverUrl"); serverURL != "" {
		apiClient = api.New(serverURL, config.GetString("api.apiKey"))
	}

	exportDir := config.GetString("export.dir")
	if exportDir == "" {
		exportDir = dataDir
	}

	fyneApp := fyneapp.NewWithID(appName)
	win := mainwindow.New(fyneApp, state, apiClient, config.GetString("api.project"), exportDir, log.Logger)

	autosave := app.NewAutosaver(30*time.Second, func() {
		if path, _ := state.Project(); path != "" {
			if err := state.SaveProject(path, ""); err != nil {
				log.Warn().Err(err).Msg("project autosave failed")
			}
		}
	}, log.Logger)
	autosave.Start()
	defer autosave.Stop()

	win.Resize(fyne.NewSize(1280, 840))
	win.ShowAndRun()
}
