package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"mgnrega-api/internal/district"
	"mgnrega-api/internal/leaderboard"
	"mgnrega-api/internal/logger"
)

// BoardSource：排行榜来源（leaderboard.Service 实现）
type BoardSource interface {
	Board(ctx context.Context, state, finYear string) (string, *leaderboard.Board, error)
}

type boardResponse struct {
	State   string              `json:"state"`
	FinYear string              `json:"finYear"`
	Count   int                 `json:"count"`
	Entries []leaderboard.Entry `json:"entries"`
}

type notRankedBody struct {
	Error      string  `json:"error"`
	District   string  `json:"district"`
	Suggestion *string `json:"suggestion"`
}

type leaderboardHandlers struct {
	src    BoardSource
	region string
}

// load：读取请求对应的榜单；失败时已写出响应
func (h *leaderboardHandlers) load(w http.ResponseWriter, r *http.Request) (string, string, *leaderboard.Board, bool) {
	q := r.URL.Query()
	state := strings.TrimSpace(q.Get("state"))
	if state == "" {
		state = h.region
	}
	fy, b, err := h.src.Board(r.Context(), state, strings.TrimSpace(q.Get("fin_year")))
	if err != nil {
		if errors.Is(err, leaderboard.ErrNoFinancialYear) {
			writeError(w, http.StatusNotFound, "no_data", err.Error())
			return "", "", nil, false
		}
		logger.L().Error("leaderboard_load_error", "state", state, "err", err)
		writeError(w, http.StatusServiceUnavailable, "leaderboard_unavailable", "")
		return "", "", nil, false
	}
	return state, fy, b, true
}

func (h *leaderboardHandlers) full(w http.ResponseWriter, r *http.Request) {
	state, fy, b, ok := h.load(w, r)
	if !ok {
		return
	}
	es := b.Entries()
	writeJSON(w, http.StatusOK, boardResponse{State: state, FinYear: fy, Count: len(es), Entries: es})
}

func (h *leaderboardHandlers) top(w http.ResponseWriter, r *http.Request) {
	n := 10
	if s := r.URL.Query().Get("n"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_n", "n must be an integer")
			return
		}
		n = v
	}
	state, fy, b, ok := h.load(w, r)
	if !ok {
		return
	}
	es := b.TopN(n)
	writeJSON(w, http.StatusOK, boardResponse{State: state, FinYear: fy, Count: len(es), Entries: es})
}

func (h *leaderboardHandlers) category(w http.ResponseWriter, r *http.Request) {
	c, err := leaderboard.ParseCategory(r.URL.Query().Get("name"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "unknown_category", "name must be one of Excellent, Good, Average, NeedsImprovement")
		return
	}
	state, fy, b, ok := h.load(w, r)
	if !ok {
		return
	}
	es := b.ByCategory(c)
	writeJSON(w, http.StatusOK, boardResponse{State: state, FinYear: fy, Count: len(es), Entries: es})
}

// 文档注释：查询单个县的名次
// 背景：用户输入常为旧县名或拼写变体，精确匹配失败后先按规则表规范化重试，仍失败时用模糊匹配给出建议。
// 返回：200 条目；404 district_not_ranked，suggestion 为榜单内最接近的县名或 null。
func (h *leaderboardHandlers) rank(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.URL.Query().Get("name"))
	if name == "" {
		writeError(w, http.StatusBadRequest, "missing_name", "")
		return
	}
	_, _, b, ok := h.load(w, r)
	if !ok {
		return
	}
	e, err := b.RankOf(name)
	if err == nil {
		writeJSON(w, http.StatusOK, e)
		return
	}
	if canon, ok := district.Normalize(name); ok {
		if e, err := b.RankOf(canon); err == nil {
			writeJSON(w, http.StatusOK, e)
			return
		}
	}
	body := notRankedBody{Error: "district_not_ranked", District: name}
	if m, ok := district.Reconcile(name); ok {
		if e, err := b.RankOf(m.District); err == nil {
			body.Suggestion = &e.District
		}
	}
	writeJSON(w, http.StatusNotFound, body)
}
