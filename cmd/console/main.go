package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/hvqdigital/agenda-console/backend/internal/adapters/cache"
	"github.com/hvqdigital/agenda-console/backend/internal/adapters/events"
	"github.com/hvqdigital/agenda-console/backend/internal/adapters/remote"
	"github.com/hvqdigital/agenda-console/backend/internal/application/services"
	"github.com/hvqdigital/agenda-console/backend/internal/domain/entities"
	"github.com/hvqdigital/agenda-console/backend/internal/domain/providers"
	"github.com/hvqdigital/agenda-console/backend/internal/infrastructure/clients/hospitalapi"
	redisclient "github.com/hvqdigital/agenda-console/backend/internal/infrastructure/clients/redis"
	"github.com/hvqdigital/agenda-console/backend/internal/infrastructure/observability"
	"github.com/hvqdigital/agenda-console/backend/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.App.Environment, cfg.App.LogLevel)
	logger := observability.GetLogger()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(ctx, cfg.OTEL.ServiceName, cfg.OTEL.ServiceVersion, cfg.OTEL.Endpoint)
		if err != nil {
			logger.Warn().Err(err).Msg("failed to set up OpenTelemetry")
		} else {
			defer func() {
				shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer shutdownCancel()
				if err := shutdown(shutdownCtx); err != nil {
					logger.Warn().Err(err).Msg("error shutting down OpenTelemetry")
				}
			}()
		}
	}

	metrics, err := observability.InitMetrics()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize metrics")
	}

	// Redis backs the shared catalog cache and the agenda event bus; the
	// console degrades to an in-process cache without it.
	var cacheProvider providers.CacheProvider = cache.NewMemoryAdapter()
	var eventBus providers.EventBus
	if cfg.Redis.Enabled {
		redisClient, err := redisclient.NewClient(&cfg.Redis)
		if err != nil {
			logger.Warn().Err(err).Msg("Redis unavailable, using in-memory catalog cache")
		} else {
			defer redisClient.Close()
			cacheProvider = cache.NewRedisAdapter(redisClient)
			eventBus = events.NewRedisEventBus(redisClient)
			defer eventBus.Close()
		}
	}

	apiClient := hospitalapi.NewClient(cfg.HospitalAPI.BaseURL, cfg.HospitalAPI.Timeout)
	if err := apiClient.Health(ctx); err != nil {
		logger.Warn().Err(err).Str("url", cfg.HospitalAPI.BaseURL).Msg("hospital API health check failed")
	}

	catalogRepo := remote.NewCatalogAdapter(apiClient, metrics)
	doctorRepo := remote.NewDoctorAdapter(apiClient, metrics)
	agendaRepo := remote.NewAgendaAdapter(apiClient, metrics)

	catalogs := services.NewCatalogService(catalogRepo, cacheProvider, metrics)
	doctors := services.NewDoctorService(doctorRepo)
	agendas := services.NewAgendaService(agendaRepo)
	editor := services.NewEditController(agendas, catalogs, agendaRepo, eventBus, metrics)

	if eventBus != nil {
		updates, err := eventBus.Subscribe(ctx, providers.EventChannelAgendaUpdates)
		if err != nil {
			logger.Warn().Err(err).Msg("could not subscribe to agenda updates")
		} else {
			// Surface changes to the selected doctor's agendas, including those
			// made by other console sessions.
			go func() {
				for event := range updates {
					if event.DoctorID != "" && event.DoctorID == agendas.DoctorID() {
						logger.Info().
							Str("agenda_id", event.AgendaID).
							Str("type", string(event.Type)).
							Msg("agenda update broadcast")
					}
				}
			}()
		}
	}

	if known, err := doctorRepo.ListAll(ctx); err != nil {
		logger.Warn().Err(err).Msg("could not preload the doctor directory")
	} else {
		doctors.SetKnownDoctors(known)
	}

	runConsole(ctx, catalogs, doctors, agendas, editor)
}

// runConsole is a thin line-driven loop; all scheduling logic lives in the
// services it drives.
func runConsole(
	ctx context.Context,
	catalogs *services.CatalogService,
	doctors *services.DoctorService,
	agendas *services.AgendaService,
	editor *services.EditController,
) {
	scanner := bufio.NewScanner(os.Stdin)
	fmt.Println("agenda console. type 'help' for commands")

	// The specialty last browsed narrows doctor name searches.
	var activeSpecialty string

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		parts := strings.Fields(line)
		command, args := parts[0], parts[1:]

		switch command {
		case "help":
			printHelp()
		case "specialties":
			labels, err := catalogs.Specialties(ctx)
			if err != nil {
				// Degrade to the specialties of the doctors already on screen.
				labels = doctors.KnownSpecialties()
				fmt.Println("! specialty catalog unavailable, showing locally-known specialties")
			}
			for _, label := range labels {
				fmt.Println("  " + label)
			}
		case "doctors":
			if len(args) == 0 {
				fmt.Println("usage: doctors <specialty>")
				continue
			}
			specialty := strings.Join(args, " ")
			list, err := doctors.ResolveBySpecialty(ctx, specialty)
			if err != nil {
				fmt.Println("! " + err.Error())
				continue
			}
			activeSpecialty = specialty
			for _, doctor := range list {
				fmt.Printf("  %s  %s (%s)\n", doctor.ID, doctor.Name, doctor.Specialty)
			}
		case "find":
			if len(args) == 0 {
				fmt.Println("usage: find <name>")
				continue
			}
			list, err := doctors.SearchByName(ctx, activeSpecialty, strings.Join(args, " "))
			if err != nil {
				fmt.Println("! " + err.Error())
				continue
			}
			for _, doctor := range list {
				fmt.Printf("  %s  %s (%s)\n", doctor.ID, doctor.Name, doctor.Specialty)
			}
		case "doctor-item":
			if len(args) != 1 {
				fmt.Println("usage: doctor-item <itemCode>")
				continue
			}
			doctor, err := doctors.ResolveByItemCode(ctx, args[0])
			if err != nil {
				fmt.Println("! " + err.Error())
				continue
			}
			fmt.Printf("  %s  %s (%s)\n", doctor.ID, doctor.Name, doctor.Specialty)
		case "select":
			if len(args) != 1 {
				fmt.Println("usage: select <doctorId>")
				continue
			}
			records, err := agendas.LoadForDoctor(ctx, args[0])
			if err != nil {
				fmt.Println("! " + err.Error())
				continue
			}
			printAgendas(records)
		case "agendas":
			printAgendas(agendas.Records())
		case "offices":
			if len(args) < 1 {
				fmt.Println("usage: offices <building> [floor]")
				continue
			}
			building := args[0]
			floor := ""
			if len(args) > 1 {
				floor = args[1]
			}
			snapshot, err := catalogs.Snapshot(ctx, building)
			if err != nil {
				fmt.Println("warning: " + err.Error())
			}
			for _, office := range snapshot.OfficeOptions(building, floor) {
				fmt.Printf("  %s  %s (building %s, floor %s)\n",
					office.Code, office.Label, office.BuildingCode, office.FloorCode)
			}
		case "search":
			printAgendas(agendas.Search(strings.Join(args, " ")))
		case "edit":
			if len(args) != 2 {
				fmt.Println("usage: edit <agendaId> <field>")
				continue
			}
			session, err := editor.Begin(args[0], entities.EditableField(args[1]))
			if err != nil {
				fmt.Println("! " + err.Error())
				continue
			}
			fmt.Printf("editing %s.%s (current: %v). 'set <value>' then 'save'\n",
				session.AgendaID, session.Field, session.Candidate)
		case "set":
			var value any = strings.Join(args, " ")
			if session, ok := editor.Current(); ok && session.Field == entities.FieldAvailability {
				value = strings.EqualFold(value.(string), "true")
			}
			if err := editor.SetCandidate(value); err != nil {
				fmt.Println("! " + err.Error())
			}
		case "create":
			if len(args) != 4 && len(args) != 7 {
				fmt.Println("usage: create <doctorId> <day> <startTime> <endTime> [building floor office]")
				continue
			}
			input := entities.AgendaCreateInput{
				DoctorID:  args[0],
				DayCode:   args[1],
				StartTime: args[2],
				EndTime:   args[3],
			}
			if len(args) == 7 {
				input.BuildingCode, input.FloorCode, input.OfficeCode = args[4], args[5], args[6]
			}
			created, err := editor.CreateAgenda(ctx, input)
			if err != nil {
				fmt.Println("! " + err.Error())
				continue
			}
			printAgendas([]entities.Agenda{*created})
		case "save":
			result, err := editor.Commit(ctx)
			if err != nil {
				fmt.Println("! " + err.Error())
				continue
			}
			for _, warning := range result.Warnings {
				// Cascade warnings are not save failures: the edit persisted,
				// only the automatic cleanup did not.
				fmt.Println("warning: " + warning.Error())
			}
			printAgendas([]entities.Agenda{result.Agenda})
		case "cancel":
			editor.Cancel()
		case "quit", "exit":
			return
		default:
			fmt.Println("unknown command; type 'help'")
		}
	}
}

func printAgendas(records []entities.Agenda) {
	if len(records) == 0 {
		fmt.Println("  (no agendas)")
		return
	}
	for _, record := range records {
		fmt.Printf("  %s  doctor=%s %s  bldg=%s floor=%s office=%s day=%s %s-%s available=%t\n",
			record.ID, record.DoctorID, record.Specialty,
			record.BuildingCode, record.FloorCode, record.OfficeCode,
			record.DayCode, record.StartTime, record.EndTime, record.IsAvailable)
	}
}

func printHelp() {
	fmt.Println(`commands:
  specialties                 list specialty labels
  doctors <specialty>         list doctors for a specialty
  find <name>                 search doctors by name within the specialty
  doctor-item <itemCode>      look up the doctor behind a billing item
  select <doctorId>           load a doctor's agendas
  create <doctorId> <day> <start> <end> [building floor office]
                              create a new agenda
  agendas                     show the loaded agendas
  offices <building> [floor]  list office options for a location
  search <term>               filter agendas by doctor name or specialty
  edit <agendaId> <field>     open an edit session (location, floor, office,
                              weekDays, startTime, endTime, specialty, isAvailable)
  set <value>                 change the candidate value
  save                        persist the candidate (runs location repairs)
  cancel                      discard the candidate
  quit`)
}
