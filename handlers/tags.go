package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"savefood/backend"
	"savefood/metrics"
	"savefood/models"
	"savefood/utils"
)

func (a *App) TagsPage(w http.ResponseWriter, r *http.Request) {
	a.render(w, "tags.html", a.pageData(r, "Tag generator"))
}

// RecommendTags asks the backend for tags matching a bag title and
// description and renders them as list items.
func (a *App) RecommendTags(w http.ResponseWriter, r *http.Request) {
	title := r.FormValue("title")
	description := r.FormValue("description")

	var data models.TagsFragment
	if err := utils.RequireFields([]string{"title", "description"}, &title, &description); err != nil {
		data.Error = "Please fill in both fields"
		a.render(w, "fragments/tags-list.html", data)
		return
	}

	tags, err := a.API.RecommendTags(r.Context(), models.TagRequest{Title: title, Description: description})
	if err != nil {
		a.Logger.Error("Error generating tags", zap.Error(err))
		metrics.BackendErrorsTotal.WithLabelValues("recommend_tags").Inc()
		detail := backend.Detail(err)
		if detail == "" {
			detail = "Failed to generate tags."
		}
		data.Error = "Error: " + detail
		a.render(w, "fragments/tags-list.html", data)
		return
	}

	metrics.TagRecommendationsTotal.Inc()
	data.Tags = tags
	a.render(w, "fragments/tags-list.html", data)
}
