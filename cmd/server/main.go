package main

import (
	"flag"
	"log/syslog"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/noslackpact/noslack"
	"github.com/noslackpact/noslack/drive"
	"github.com/noslackpact/noslack/persistent"
	"github.com/noslackpact/noslack/pgdb"
	"github.com/noslackpact/noslack/transport/rest"
	"github.com/sirupsen/logrus"
	logrusys "github.com/sirupsen/logrus/hooks/syslog"
	"github.com/tidwall/buntdb"
	"github.com/uptrace/bun"
	_ "github.com/uptrace/bun/driver/pgdriver"
)

func listenAndServe(
	bdb *buntdb.DB,
	db *bun.DB,
	driveConfig driveConfig,
	debug bool,
) func() error {
	pactStore := &persistent.PactStore{DB: db}
	userStore := &persistent.UserStore{DB: db}
	activityStore := &persistent.ActivityStore{DB: db}
	logStore := &persistent.ActivityLogStore{DB: db}
	mediaStore := &persistent.MediaStore{DB: db}

	storage := &drive.Service{
		FindFolder:      driveConfig.folderFinder,
		CreateFolder:    driveConfig.folderCreator,
		CreateFile:      driveConfig.fileCreator,
		GetFile:         driveConfig.fileGetter,
		GrantPermission: driveConfig.permissionGranter,
		RootFolderId:    driveConfig.rootFolderId,
		Visibility:      driveConfig.visibility,
		Cache:           bdb,
	}

	logService := &noslack.LogService{
		Users:         userStore,
		Pacts:         pactStore,
		Activities:    activityStore,
		Logs:          logStore,
		Media:         mediaStore,
		OffsetMinutes: noslack.DefaultOffsetMinutes,
	}
	mediaService := &noslack.MediaService{
		Users:         userStore,
		Pacts:         pactStore,
		Activities:    activityStore,
		Media:         mediaStore,
		Storage:       storage,
		Limits:        driveConfig.limits,
		OffsetMinutes: noslack.DefaultOffsetMinutes,
	}
	membershipService := &noslack.MembershipService{
		Users:      userStore,
		Pacts:      pactStore,
		Activities: activityStore,
	}
	activityService := &noslack.ActivityService{
		Users:      userStore,
		Pacts:      pactStore,
		Activities: activityStore,
	}

	pactController := rest.PactController{Store: pactStore}
	userController := rest.UserController{Store: userStore, Membership: membershipService}
	activityController := rest.ActivityController{Service: activityService}
	logController := rest.LogController{Logs: logService, Media: mediaService}
	mediaController := rest.MediaController{Service: mediaService}

	server := fiber.New()
	server.Use(rest.LogHandler())

	api := fiber.New(fiber.Config{
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		ErrorHandler: rest.ErrorHandler,
	})

	allowOrigins := "https://noslackpact.app"
	if debug {
		allowOrigins += ", http://localhost:3000"
	}
	api.Use(cors.New(cors.Config{AllowOrigins: allowOrigins}))

	api.Get("/status", monitor.New())
	pactController.InstallTo(api)
	userController.InstallTo(api)
	activityController.InstallTo(api)
	logController.InstallTo(api)
	mediaController.InstallTo(api)

	server.Mount("/api/", api)

	server.Use(rest.NotFoundHandler)

	var addr string
	if debug {
		addr = "127.0.0.1:2137"
	} else {
		addr = ":2137"
	}
	go server.Listen(addr)

	return func() error {
		return server.Shutdown()
	}
}

func setupLogger(verbose bool) {
	logrus.SetFormatter(&logrus.TextFormatter{
		TimestampFormat: time.Stamp,
		FullTimestamp:   true,
	})
	if verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}

	syslogHook, err := logrusys.NewSyslogHook("", "", syslog.LOG_USER, "noslack_backend")
	if err != nil {
		logrus.WithError(err).Fatalln("Could not create syslog hook.")
		return
	}
	logrus.AddHook(syslogHook)
}

type driveConfig struct {
	rootFolderId      string
	visibility        string
	limits            noslack.FileLimits
	folderFinder      drive.FolderFinder
	folderCreator     drive.FolderCreator
	fileCreator       drive.FileCreator
	fileGetter        drive.FileGetter
	permissionGranter drive.PermissionGranter
}

func driveConfigFromEnv() driveConfig {
	requireEnv := func(key string) string {
		value := os.Getenv(key)
		if value == "" {
			logrus.Fatalln(key + " not set!")
		}
		return value
	}
	clientId := requireEnv("DRIVE_CLIENT_ID")
	clientSecret := requireEnv("DRIVE_CLIENT_SECRET")
	refreshToken := requireEnv("DRIVE_REFRESH_TOKEN")

	visibility := os.Getenv("DRIVE_DEFAULT_VISIBILITY")
	if visibility != drive.VisibilityPrivate {
		visibility = drive.VisibilityLink
	}

	limits := noslack.DefaultFileLimits()
	if raw := os.Getenv("MAX_IMAGE_BYTES"); raw != "" {
		value, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			logrus.Fatalln("MAX_IMAGE_BYTES is not a number!")
		}
		limits.MaxImageBytes = value
	}
	if raw := os.Getenv("MAX_VIDEO_BYTES"); raw != "" {
		value, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			logrus.Fatalln("MAX_VIDEO_BYTES is not a number!")
		}
		limits.MaxVideoBytes = value
	}

	token := drive.RestTokenSource(clientId, clientSecret, refreshToken)
	return driveConfig{
		rootFolderId:      os.Getenv("DRIVE_ROOT_FOLDER_ID"),
		visibility:        visibility,
		limits:            limits,
		folderFinder:      drive.RestFolderFinder(token),
		folderCreator:     drive.RestFolderCreator(token),
		fileCreator:       drive.RestFileCreator(token),
		fileGetter:        drive.RestFileGetter(token),
		permissionGranter: drive.RestPermissionGranter(token),
	}
}

func awaitInterruption() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	<-c
}

func main() {
	flag.Parse()
	debug := os.Getenv("DEBUG") == "true"
	setupLogger(debug)
	logrus.Infoln("Starting backend.")

	pgDsn := os.Getenv("PACTDB_DSN")
	if pgDsn == "" {
		logrus.Fatalln("Environment variable PACTDB_DSN is not set!")
	}

	bdb, err := buntdb.Open("kv.db")
	if err != nil {
		logrus.WithError(err).Fatalln("Could not open buntdb.")
	}
	defer bdb.Close()

	logrus.Infoln("Opening database.")
	db := pgdb.Open(pgDsn)
	defer db.Close()

	driveConfig := driveConfigFromEnv()

	logrus.Infoln("Starting listening... To shut down use ^C")
	shutdown := listenAndServe(bdb, db, driveConfig, debug)

	awaitInterruption()

	logrus.Infoln("Shutting down...")
	err = shutdown()
	if err != nil {
		logrus.WithError(err).Warningln("Fiber shutdown failed.")
	}
	logrus.Exit(0)
}
