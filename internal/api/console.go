package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"fleet-dashboard/internal/console"
	"fleet-dashboard/internal/models"
)

// respondConsole answers with the console view, or the error of the
// transition that produced it
func (s *Server) respondConsole(w http.ResponseWriter, err error) {
	if err != nil {
		respondError(w, statusFor(err), err.Error())
		return
	}
	view, err := s.console.View()
	if err != nil {
		respondError(w, statusFor(err), err.Error())
		return
	}
	respondJSON(w, http.StatusOK, view)
}

func (s *Server) dispatch(w http.ResponseWriter, r *http.Request, a console.Action) {
	_, err := s.console.Dispatch(r.Context(), a)
	s.respondConsole(w, err)
}

// dispatchBody decodes the action from the request body before dispatching
func dispatchBody[A console.Action](s *Server, w http.ResponseWriter, r *http.Request) {
	var a A
	if err := decode(r, &a); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	s.dispatch(w, r, a)
}

func (s *Server) handleConsoleView(w http.ResponseWriter, r *http.Request) {
	s.respondConsole(w, nil)
}

func (s *Server) handleConsoleCategory(w http.ResponseWriter, r *http.Request) {
	dispatchBody[console.SelectCategory](s, w, r)
}

func (s *Server) handleConsoleReport(w http.ResponseWriter, r *http.Request) {
	dispatchBody[console.SelectReport](s, w, r)
}

func (s *Server) handleConsoleScope(w http.ResponseWriter, r *http.Request) {
	var scope models.Scope
	if err := decode(r, &scope); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	s.dispatch(w, r, console.ChangeScope{Scope: scope})
}

func (s *Server) handleConsoleFilter(w http.ResponseWriter, r *http.Request) {
	dispatchBody[console.ChangeFilter](s, w, r)
}

func (s *Server) handleConsoleApply(w http.ResponseWriter, r *http.Request) {
	s.dispatch(w, r, console.ApplyFilters{})
}

func (s *Server) handleConsoleReset(w http.ResponseWriter, r *http.Request) {
	s.dispatch(w, r, console.ResetFilters{})
}

func (s *Server) handleConsoleReload(w http.ResponseWriter, r *http.Request) {
	s.dispatch(w, r, console.Reload{})
}

func (s *Server) handleConsolePage(w http.ResponseWriter, r *http.Request) {
	dispatchBody[console.ChangePage](s, w, r)
}

func (s *Server) handleConsolePageSize(w http.ResponseWriter, r *http.Request) {
	dispatchBody[console.ChangePageSize](s, w, r)
}

func (s *Server) handleConsoleSearch(w http.ResponseWriter, r *http.Request) {
	dispatchBody[console.ChangeSearch](s, w, r)
}

func (s *Server) handleConsoleSort(w http.ResponseWriter, r *http.Request) {
	_, err := s.console.ClickHeader(r.Context(), mux.Vars(r)["col"])
	s.respondConsole(w, err)
}

func (s *Server) handleConsoleNext(w http.ResponseWriter, r *http.Request) {
	_, err := s.console.NextPage(r.Context())
	s.respondConsole(w, err)
}

func (s *Server) handleConsolePrev(w http.ResponseWriter, r *http.Request) {
	_, err := s.console.PrevPage(r.Context())
	s.respondConsole(w, err)
}

func (s *Server) handleConsoleExport(w http.ResponseWriter, r *http.Request) {
	format, err := s.format(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	m, rows, err := s.console.Export(r.Context())
	if err != nil {
		respondError(w, statusFor(err), err.Error())
		return
	}
	s.serveExport(w, r, m, format, rows)
}
