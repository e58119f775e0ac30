package server

import (
	"fmt"
	"net/http"
	"strings"

	"daotask/internal/store"
)

const maxListLimit = 500

func parseListFilter(r *http.Request) (store.ListFilter, error) {
	limit, err := queryInt(r, "limit")
	if err != nil {
		return store.ListFilter{}, err
	}
	offset, err := queryInt(r, "offset")
	if err != nil {
		return store.ListFilter{}, err
	}
	if limit > maxListLimit {
		return store.ListFilter{}, badRequestCode(fmt.Errorf("limit must be <= %d", maxListLimit), ErrCodeInvalidQuery)
	}
	if offset > 0 && limit == 0 {
		return store.ListFilter{}, badRequestCode(fmt.Errorf("offset requires limit"), ErrCodeInvalidQuery)
	}

	query := r.URL.Query()
	filter := store.ListFilter{
		DAO:         strings.TrimSpace(query.Get("dao")),
		Repo:        strings.TrimSpace(query.Get("repo")),
		MilestoneID: strings.TrimSpace(query.Get("milestone")),
		Limit:       limit,
		Offset:      offset,
	}

	if filter.MilestoneID != "" && !validateID(filter.MilestoneID) {
		return store.ListFilter{}, badRequestCode(fmt.Errorf("invalid milestone"), ErrCodeInvalidID)
	}

	for _, raw := range splitCSV(query.Get("kind")) {
		kind, err := normalizeKind(raw)
		if err != nil {
			return store.ListFilter{}, err
		}
		filter.Kinds = append(filter.Kinds, kind)
	}
	for _, raw := range splitCSV(query.Get("status")) {
		status, err := normalizeStatus(raw)
		if err != nil {
			return store.ListFilter{}, err
		}
		filter.Statuses = append(filter.Statuses, status)
	}
	if raw := strings.TrimSpace(query.Get("tag")); raw != "" {
		tag, err := normalizeTag(raw)
		if err != nil {
			return store.ListFilter{}, err
		}
		filter.Tag = tag
	}

	return filter, nil
}
