package buissines

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"
	"strconv"
	"strings"

	"github.com/yourusername/media-saver-bot/internal/domain/media/consts"
	"github.com/yourusername/media-saver-bot/internal/domain/media/entities"
	errs "github.com/yourusername/media-saver-bot/internal/domain/media/errors"
	"github.com/yourusername/media-saver-bot/internal/domain/media/selector"
)

const maxFallbackLinks = 3

// HandleDownload runs the full pipeline for one submitted link: validate,
// resolve (through the cache), probe, select, deliver with fallback, and
// record the terminal outcome.
func (u *UseCase) HandleDownload(ctx context.Context, chatID int64, rawURL string) {
	rawURL = strings.TrimSpace(rawURL)

	if !isHTTPURL(rawURL) {
		u.sendResponse(ctx, chatID, "❗ Iltimos, ijtimoiy tarmoq post linkini yuboring (http:// yoki https:// bilan boshlanadi).")
		u.recordOutcome(ctx, &entities.Download{
			ChatID:       chatID,
			MediaURL:     rawURL,
			Status:       consts.StatusInvalidURL,
			ErrorMessage: "not_http_url",
		})
		return
	}

	if err := u.limiter.Acquire(ctx, chatID); err != nil {
		if errors.Is(err, errs.ErrBusy) {
			u.sendResponse(ctx, chatID, "⏳ Sizda juda ko'p yuklash navbatda. Birozdan so'ng qayta urinib ko'ring.")
			u.recordOutcome(ctx, &entities.Download{
				ChatID:       chatID,
				MediaURL:     rawURL,
				Status:       consts.StatusBusy,
				ErrorMessage: "per_user_limit",
			})
		}
		return
	}
	defer u.limiter.Release(chatID)

	progressID, _ := u.sender.SendMessageAndGetID(ctx, chatID, "🔄 Media yuklanmoqda...")
	_ = u.sender.SendChatAction(ctx, chatID, "upload_document")
	defer u.deleteProgress(ctx, chatID, progressID)

	u.editProgress(ctx, chatID, progressID, "🔍 Media URL'lari qidirilmoqda...")

	result, err := u.resolve(ctx, rawURL)
	if err != nil {
		u.handleResolveError(ctx, chatID, rawURL, err)
		return
	}

	if len(result.Candidates) == 0 {
		u.editProgress(ctx, chatID, progressID, "🔍 Media topilmadi yoki link noto'g'ri. Iltimos, linkni tekshirib qayta yuboring.")
		u.recordOutcome(ctx, &entities.Download{
			ChatID:       chatID,
			MediaURL:     rawURL,
			Status:       consts.StatusNoMedia,
			ErrorMessage: "empty_result",
		})
		return
	}

	u.editProgress(ctx, chatID, progressID,
		fmt.Sprintf("✅ %d ta media topildi. Yuborilmoqda...", len(result.Candidates)))

	// Probing happens sequentially: side-effect ordering stays deterministic
	// within one request.
	probed := make([]entities.MediaCandidate, len(result.Candidates))
	for i, candidate := range result.Candidates {
		verdict, sizeMB := u.prober.Probe(ctx, candidate.URL, u.downloadCfg.MaxFileSizeMB)
		candidate.Verdict = verdict
		candidate.SizeMB = sizeMB
		probed[i] = candidate
	}

	selected, err := selector.Select(probed, u.downloadCfg.MaxVariants)
	if err != nil {
		if errors.Is(err, errs.ErrAllTooLarge) {
			u.sendFallbackLinks(ctx, chatID, probed,
				fmt.Sprintf("⚠️ Fayllar juda katta — Telegram %dMB dan katta fayllarni qabul qilmaydi. To'g'ridan-to'g'ri yuklab olish linklari:", u.downloadCfg.MaxFileSizeMB))
			u.recordOutcome(ctx, &entities.Download{
				ChatID:       chatID,
				MediaURL:     rawURL,
				Status:       consts.StatusTooLarge,
				ErrorMessage: "all_variants_too_large",
				MediaCount:   len(probed),
				MediaTypes:   joinTypes(probed),
				FileSizesMB:  joinSizes(probed),
			})
			return
		}
		// selector only reports ErrNoMedia otherwise, handled above
		return
	}

	attempts := make([]entities.DeliveryAttempt, 0, len(selected))
	sent := 0
	for index, candidate := range selected {
		caption := u.buildCaption(candidate, index+1, len(selected), rawURL, result.Meta)
		attempt := u.deliver(ctx, chatID, candidate, caption)
		attempts = append(attempts, attempt)
		if attempt.Outcome == entities.OutcomeSent {
			sent++
		}
		if attempt.Outcome == entities.OutcomeSkippedTooLarge {
			u.sendResponse(ctx, chatID,
				fmt.Sprintf("⚠️ Fayl %d/%d juda katta (%dMB limit). To'g'ridan-to'g'ri link:\n%s",
					index+1, len(selected), u.downloadCfg.MaxFileSizeMB, candidate.URL))
		}
	}

	download := &entities.Download{
		ChatID:      chatID,
		MediaURL:    rawURL,
		MediaCount:  len(selected),
		MediaTypes:  joinAttemptTypes(attempts),
		FileSizesMB: joinAttemptSizes(attempts),
	}

	switch {
	case sent == len(selected):
		download.Status = consts.StatusSuccess
	case sent > 0:
		download.Status = consts.StatusPartial
	default:
		download.Status = consts.StatusError
		download.ErrorMessage = "send_failed"
		u.sendFallbackLinks(ctx, chatID, probed,
			"⚠️ Media topildi, lekin Telegram orqali yuborishda xatolik yuz berdi. To'g'ridan-to'g'ri yuklab olish linklari:")
	}

	u.recordOutcome(ctx, download)
}

// resolve serves from the cache when possible, otherwise calls upstream and
// caches a non-empty URL list. Cache hits carry no metadata.
func (u *UseCase) resolve(ctx context.Context, rawURL string) (*entities.ResolutionResult, error) {
	if urls, ok := u.cache.Get(rawURL); ok {
		u.logger.Debug().Str("url", rawURL).Int("candidates", len(urls)).Msg("Resolution cache hit")

		candidates := make([]entities.MediaCandidate, 0, len(urls))
		for _, cached := range urls {
			candidates = append(candidates, entities.MediaCandidate{
				URL:     cached,
				Type:    entities.GuessMediaType(cached),
				Verdict: entities.SizeUnknown,
			})
		}
		return &entities.ResolutionResult{Candidates: candidates}, nil
	}

	result, err := u.resolver.Resolve(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	u.cache.Set(rawURL, result.URLs())
	return result, nil
}

func (u *UseCase) handleResolveError(ctx context.Context, chatID int64, rawURL string, err error) {
	if errors.Is(err, errs.ErrRateLimited) {
		u.sendResponse(ctx, chatID, "⏱ API limiti vaqtincha tugadi. Iltimos, birozdan so'ng qayta urinib ko'ring.")
		u.notifyAdmin(ctx, chatID, rawURL)
		u.recordOutcome(ctx, &entities.Download{
			ChatID:       chatID,
			MediaURL:     rawURL,
			Status:       consts.StatusRateLimit,
			ErrorMessage: err.Error(),
		})
		return
	}

	u.sendResponse(ctx, chatID, "⚠️ Serverda kutilmagan xatolik yuz berdi. Birozdan so'ng qayta urinib ko'ring.")
	u.recordOutcome(ctx, &entities.Download{
		ChatID:       chatID,
		MediaURL:     rawURL,
		Status:       consts.StatusError,
		ErrorMessage: err.Error(),
	})
}

// deliver runs the per-candidate state machine: direct URL hand-off first
// (skipped for hosts that reject hot-linking), then a streamed re-upload.
func (u *UseCase) deliver(ctx context.Context, chatID int64, candidate entities.MediaCandidate, caption string) entities.DeliveryAttempt {
	attempt := entities.DeliveryAttempt{Candidate: candidate}

	if !u.hostBlocksDirectSend(candidate.URL) {
		attempt.Strategy = entities.StrategyDirectURL

		err := u.sender.SendMediaByURL(ctx, chatID, candidate.Type, candidate.URL, caption)
		if err == nil {
			attempt.Outcome = entities.OutcomeSent
			u.logAttempt(chatID, attempt, nil)
			return attempt
		}
		u.logAttempt(chatID, attempt, err)
	}

	attempt.Strategy = entities.StrategyStreamedReupload

	maxBytes := int64(u.downloadCfg.MaxFileSizeMB) * 1024 * 1024
	data, err := u.fetcher.Fetch(ctx, candidate.URL, maxBytes)
	if err != nil {
		if errors.Is(err, errs.ErrStreamTooLarge) {
			attempt.Outcome = entities.OutcomeSkippedTooLarge
		} else {
			attempt.Outcome = entities.OutcomeFailed
		}
		u.logAttempt(chatID, attempt, err)
		return attempt
	}

	if err := u.sender.SendMediaBytes(ctx, chatID, candidate.Type, filenameFor(candidate), data, caption); err != nil {
		attempt.Outcome = entities.OutcomeFailed
		u.logAttempt(chatID, attempt, err)
		return attempt
	}

	attempt.Outcome = entities.OutcomeSent
	u.logAttempt(chatID, attempt, nil)
	return attempt
}

// hostBlocksDirectSend reports whether the URL's host belongs to a CDN
// family known to reject Telegram's fetch-by-URL.
func (u *UseCase) hostBlocksDirectSend(rawURL string) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	host := strings.ToLower(parsed.Hostname())
	for _, blocked := range u.downloadCfg.DirectSendDenylist {
		blocked = strings.ToLower(blocked)
		if host == blocked || strings.HasSuffix(host, "."+blocked) {
			return true
		}
	}
	return false
}

// sendFallbackLinks surfaces up to three raw candidate URLs, preferring
// known-size candidates over unknown-size ones.
func (u *UseCase) sendFallbackLinks(ctx context.Context, chatID int64, candidates []entities.MediaCandidate, header string) {
	links := gatherFallbackLinks(candidates, maxFallbackLinks)
	if len(links) == 0 {
		u.sendResponse(ctx, chatID, header)
		return
	}

	var b strings.Builder
	b.WriteString(header)
	for i, link := range links {
		b.WriteString(fmt.Sprintf("\n%d. %s", i+1, link))
	}
	u.sendResponse(ctx, chatID, b.String())
}

func gatherFallbackLinks(candidates []entities.MediaCandidate, limit int) []string {
	var links []string
	appendByVerdict := func(verdict entities.SizeVerdict) {
		for _, c := range candidates {
			if len(links) >= limit {
				return
			}
			if c.Verdict == verdict {
				links = append(links, c.URL)
			}
		}
	}
	appendByVerdict(entities.SizeKnownOK)
	appendByVerdict(entities.SizeUnknown)
	appendByVerdict(entities.SizeKnownOver)
	return links
}

func (u *UseCase) buildCaption(candidate entities.MediaCandidate, index, total int, sourceURL string, meta entities.Metadata) string {
	var lines []string

	switch candidate.Type {
	case entities.MediaTypeVideo:
		lines = append(lines, "🎬 Video")
	case entities.MediaTypePhoto:
		lines = append(lines, "🖼 Rasm")
	default:
		lines = append(lines, "📎 Fayl")
	}

	if total > 1 {
		lines = append(lines, fmt.Sprintf("(fayl %d/%d)", index, total))
	}

	if meta.Title != "" {
		lines = append(lines, "", meta.Title)
	}
	if meta.Author != "" {
		lines = append(lines, "👤 "+meta.Author)
	}

	lines = append(lines, "", "🔗 Asl post: "+sourceURL)
	return strings.Join(lines, "\n")
}

// recordOutcome writes the download log row and publishes the event, both
// best-effort: their failures never reach the user.
func (u *UseCase) recordOutcome(ctx context.Context, download *entities.Download) {
	if err := u.downloads.Log(ctx, download); err != nil {
		u.logger.Error().Err(err).
			Int64("chat_id", download.ChatID).
			Str("status", download.Status).
			Msg("Failed to log download")
	}

	var err error
	switch download.Status {
	case consts.StatusSuccess, consts.StatusPartial:
		err = u.events.SendDownloadCompleted(ctx, download)
	default:
		err = u.events.SendDownloadFailed(ctx, download)
	}
	if err != nil {
		u.logger.Warn().Err(err).Str("status", download.Status).Msg("Failed to publish download event")
	}
}

func (u *UseCase) notifyAdmin(ctx context.Context, chatID int64, rawURL string) {
	if u.adminChatID == 0 {
		return
	}
	text := fmt.Sprintf("⚠️ RapidAPI rate limit tugadi.\n\nUser chat_id: %d\nURL: %s", chatID, rawURL)
	if err := u.sender.SendMessage(ctx, u.adminChatID, text); err != nil {
		u.logger.Warn().Err(err).Msg("Failed to notify admin about rate limit")
	}
}

func (u *UseCase) sendResponse(ctx context.Context, chatID int64, text string) {
	if err := u.sender.SendMessage(ctx, chatID, text); err != nil {
		u.logger.Error().Int64("chat_id", chatID).Err(err).Msg("Failed to send response")
	}
}

func (u *UseCase) editProgress(ctx context.Context, chatID int64, messageID int, text string) {
	if messageID == 0 {
		return
	}
	if err := u.sender.EditMessageText(ctx, chatID, messageID, text); err != nil {
		u.logger.Debug().Err(err).Int64("chat_id", chatID).Msg("Failed to edit progress message")
	}
}

func (u *UseCase) deleteProgress(ctx context.Context, chatID int64, messageID int) {
	if messageID == 0 {
		return
	}
	// Best-effort cleanup
	_ = u.sender.DeleteMessage(ctx, chatID, messageID)
}

func (u *UseCase) logAttempt(chatID int64, attempt entities.DeliveryAttempt, err error) {
	event := u.logger.Info()
	if err != nil {
		event = u.logger.Warn().Err(err)
	}
	event.
		Int64("chat_id", chatID).
		Str("url", attempt.Candidate.URL).
		Str("media_type", string(attempt.Candidate.Type)).
		Str("strategy", string(attempt.Strategy)).
		Str("outcome", string(attempt.Outcome)).
		Msg("Delivery attempt")
}

func isHTTPURL(s string) bool {
	lowered := strings.ToLower(s)
	if !strings.HasPrefix(lowered, "http://") && !strings.HasPrefix(lowered, "https://") {
		return false
	}
	parsed, err := url.Parse(s)
	return err == nil && parsed.Host != ""
}

func filenameFor(candidate entities.MediaCandidate) string {
	parsed, err := url.Parse(candidate.URL)
	if err == nil {
		if name := path.Base(parsed.Path); name != "" && name != "/" && name != "." {
			return name
		}
	}
	switch candidate.Type {
	case entities.MediaTypeVideo:
		return "video.mp4"
	case entities.MediaTypePhoto:
		return "photo.jpg"
	default:
		return "file.bin"
	}
}

func joinTypes(candidates []entities.MediaCandidate) string {
	types := make([]string, 0, len(candidates))
	for _, c := range candidates {
		types = append(types, string(c.Type))
	}
	return strings.Join(types, ",")
}

func joinSizes(candidates []entities.MediaCandidate) string {
	sizes := make([]string, 0, len(candidates))
	for _, c := range candidates {
		sizes = append(sizes, strconv.Itoa(c.SizeMB))
	}
	return strings.Join(sizes, ",")
}

func joinAttemptTypes(attempts []entities.DeliveryAttempt) string {
	types := make([]string, 0, len(attempts))
	for _, a := range attempts {
		types = append(types, string(a.Candidate.Type))
	}
	return strings.Join(types, ",")
}

func joinAttemptSizes(attempts []entities.DeliveryAttempt) string {
	sizes := make([]string, 0, len(attempts))
	for _, a := range attempts {
		sizes = append(sizes, strconv.Itoa(a.Candidate.SizeMB))
	}
	return strings.Join(sizes, ",")
}
