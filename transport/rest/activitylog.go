package rest

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/noslackpact/noslack"
)

// Attachments beyond this count are rejected outright.
const maxLogAttachments = 10

type LogController struct {
	Logs  *noslack.LogService
	Media *noslack.MediaService
}

func (c *LogController) InstallTo(app *fiber.App) {
	app.Post("/logs", c.serveCreateLog)
	app.Get("/logs/progress/activity", c.serveProgressByActivity)
	app.Get("/logs/progress/user", c.serveProgressForUser)
	app.Get("/logs/progress/by-user", c.serveProgressAcrossPacts)
	app.Get("/logs/user-logs", c.serveUserLogsByDay)
	app.Get("/logs/:log_id", c.serveLogDetail)
}

type logResponse struct {
	Id         int64  `json:"id"`
	PactId     int64  `json:"pactId"`
	ActivityId int64  `json:"activityId"`
	UserId     int64  `json:"userId"`
	Notes      string `json:"notes,omitempty"`
	Verified   bool   `json:"verified"`
	OccurredAt int64  `json:"occurredAt"`
}

func mapLog(log noslack.ActivityLog) logResponse {
	return logResponse{
		Id:         log.Id,
		PactId:     log.PactId,
		ActivityId: log.ActivityId,
		UserId:     int64(log.UserId),
		Notes:      log.Notes,
		Verified:   log.Verified,
		OccurredAt: log.OccurredAt.Unix(),
	}
}

type mediaResponse struct {
	Id             int64  `json:"id"`
	Name           string `json:"name"`
	MimeType       string `json:"mimeType"`
	SizeBytes      int64  `json:"sizeBytes"`
	WebViewLink    string `json:"webViewLink,omitempty"`
	WebContentLink string `json:"webContentLink,omitempty"`
}

func mapMedia(media noslack.Media) mediaResponse {
	return mediaResponse{
		Id:             media.Id,
		Name:           media.Name,
		MimeType:       media.MimeType,
		SizeBytes:      media.SizeBytes,
		WebViewLink:    media.WebViewLink,
		WebContentLink: media.WebContentLink,
	}
}

// serveCreateLog admits one entry for the day and then uploads the optional
// attachments one by one, in attachment order. Within a single request the
// uploads stay strictly sequential.
func (c *LogController) serveCreateLog(ctx *fiber.Ctx) error {
	pactId, err := strconv.ParseInt(ctx.FormValue("pactId"), 10, 64)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid pact id")
	}
	activityId, err := strconv.ParseInt(ctx.FormValue("activityId"), 10, 64)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid activity id")
	}
	userId, err := strconv.ParseInt(ctx.FormValue("userId"), 10, 64)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid user id")
	}
	params := noslack.CreateLogParams{
		PactId:     pactId,
		ActivityId: activityId,
		UserId:     noslack.UserId(userId),
		Notes:      ctx.FormValue("notes"),
	}
	if occurredAt := ctx.FormValue("occurredAt"); occurredAt != "" {
		unix, err := strconv.ParseInt(occurredAt, 10, 64)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid occurredAt")
		}
		params.OccurredAt = time.Unix(unix, 0)
	}

	log, err := c.Logs.CreateLog(ctx.Context(), params)
	if err != nil {
		return domainError(err)
	}

	response := struct {
		Log   logResponse     `json:"log"`
		Media []mediaResponse `json:"media,omitempty"`
	}{Log: mapLog(log)}

	form, err := ctx.MultipartForm()
	if err == nil && form != nil && len(form.File["files"]) > 0 {
		files := form.File["files"]
		if len(files) > maxLogAttachments {
			return fiber.NewError(fiber.StatusBadRequest, "too many files")
		}
		response.Media = make([]mediaResponse, 0, len(files))
		for _, header := range files {
			file, err := header.Open()
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "unreadable file "+header.Filename)
			}
			media, err := c.Media.UploadMedia(ctx.Context(), noslack.UploadParams{
				UserId:     params.UserId,
				PactId:     params.PactId,
				ActivityId: params.ActivityId,
				File: noslack.Upload{
					Name:      header.Filename,
					MimeType:  header.Header.Get(fiber.HeaderContentType),
					SizeBytes: header.Size,
					Body:      file,
				},
			})
			file.Close()
			if err != nil {
				return domainError(err)
			}
			response.Media = append(response.Media, mapMedia(media))
		}
	}
	return ctx.Status(fiber.StatusCreated).JSON(response)
}

func (c *LogController) serveProgressByActivity(ctx *fiber.Ctx) error {
	pactId, err := strconv.ParseInt(ctx.Query("pactId"), 10, 64)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid pact id")
	}
	activityId, err := strconv.ParseInt(ctx.Query("activityId"), 10, 64)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid activity id")
	}

	progress, err := c.Logs.WeeklyProgressByActivity(ctx.Context(), pactId, activityId)
	if err != nil {
		return domainError(err)
	}

	type userProgress struct {
		UserId       int64 `json:"userId"`
		TargetDays   int   `json:"targetDays"`
		ActivityDays int   `json:"activityDays"`
	}
	users := make([]userProgress, len(progress.Users))
	for i, user := range progress.Users {
		users[i] = userProgress{
			UserId:       int64(user.UserId),
			TargetDays:   user.TargetDays,
			ActivityDays: user.ActivityDays,
		}
	}
	return ctx.JSON(struct {
		TargetDays int            `json:"targetDays"`
		Users      []userProgress `json:"users"`
	}{TargetDays: progress.TargetDays, Users: users})
}

func (c *LogController) serveProgressForUser(ctx *fiber.Ctx) error {
	pactId, err := strconv.ParseInt(ctx.Query("pactId"), 10, 64)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid pact id")
	}
	userId, err := strconv.ParseInt(ctx.Query("userId"), 10, 64)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid user id")
	}

	progress, err := c.Logs.WeeklyProgressForUser(ctx.Context(), pactId, noslack.UserId(userId))
	if err != nil {
		return domainError(err)
	}
	return ctx.JSON(struct {
		UserId       int64 `json:"userId"`
		TargetDays   int   `json:"targetDays"`
		ActivityDays int   `json:"activityDays"`
	}{
		UserId:       int64(progress.UserId),
		TargetDays:   progress.TargetDays,
		ActivityDays: progress.ActivityDays,
	})
}

func (c *LogController) serveProgressAcrossPacts(ctx *fiber.Ctx) error {
	userId, err := strconv.ParseInt(ctx.Query("userId"), 10, 64)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid user id")
	}

	progress, err := c.Logs.WeeklyProgressAcrossPacts(ctx.Context(), noslack.UserId(userId))
	if err != nil {
		return domainError(err)
	}

	type pactProgress struct {
		PactId       int64 `json:"pactId"`
		TargetDays   int   `json:"targetDays"`
		ActivityDays int   `json:"activityDays"`
	}
	results := make([]pactProgress, len(progress))
	for i, p := range progress {
		results[i] = pactProgress{
			PactId:       p.PactId,
			TargetDays:   p.TargetDays,
			ActivityDays: p.ActivityDays,
		}
	}
	return ctx.JSON(struct {
		UserId  int64          `json:"userId"`
		Results []pactProgress `json:"results"`
	}{UserId: userId, Results: results})
}

func (c *LogController) serveUserLogsByDay(ctx *fiber.Ctx) error {
	pactId, err := strconv.ParseInt(ctx.Query("pactId"), 10, 64)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid pact id")
	}
	userId, err := strconv.ParseInt(ctx.Query("userId"), 10, 64)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid user id")
	}

	days, err := c.Logs.LogsByDay(ctx.Context(), pactId, noslack.UserId(userId))
	if err != nil {
		return domainError(err)
	}

	type dayLogs struct {
		Date string        `json:"date"`
		Logs []logResponse `json:"logs"`
	}
	mapped := make([]dayLogs, len(days))
	for i, day := range days {
		logs := make([]logResponse, len(day.Logs))
		for j, log := range day.Logs {
			logs[j] = mapLog(log)
		}
		mapped[i] = dayLogs{Date: day.Date, Logs: logs}
	}
	return ctx.JSON(struct {
		PactId int64     `json:"pactId"`
		UserId int64     `json:"userId"`
		Days   []dayLogs `json:"days"`
	}{PactId: pactId, UserId: userId, Days: mapped})
}

func (c *LogController) serveLogDetail(ctx *fiber.Ctx) error {
	logId, err := strconv.ParseInt(ctx.Params("log_id"), 10, 64)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid log id")
	}

	detail, err := c.Logs.LogDetail(ctx.Context(), logId)
	if err != nil {
		return domainError(err)
	}

	images := make([]mediaResponse, len(detail.Media))
	for i, media := range detail.Media {
		images[i] = mapMedia(media)
	}
	return ctx.JSON(struct {
		Id         int64           `json:"id"`
		Date       string          `json:"date"`
		OccurredAt int64           `json:"occurredAt"`
		Notes      string          `json:"notes,omitempty"`
		Images     []mediaResponse `json:"images"`
	}{
		Id:         detail.Log.Id,
		Date:       detail.Date,
		OccurredAt: detail.Log.OccurredAt.Unix(),
		Notes:      detail.Log.Notes,
		Images:     images,
	})
}
