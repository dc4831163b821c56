package server

import (
	"io"
	"net/http"

	"github.com/ValentinKolb/kvapp/api/common"
	"github.com/ValentinKolb/kvapp/lib/db"
	"github.com/ValentinKolb/kvapp/lib/store"
	"github.com/ValentinKolb/kvapp/lib/store/mstore"
)

// --------------------------------------------------------------------------
// Handlers (one store operation each)
// --------------------------------------------------------------------------

// index describes the service
func (s *Server) index(w http.ResponseWriter, _ *http.Request) {
	common.WriteJSON(w, http.StatusOK, common.IndexResponse{
		Name:    "kvapp",
		Version: s.opts.Version,
		DatabaseInfo: common.DatabaseInfo{
			Name: s.state.Name(),
		},
	})
}

// health probes the store by asking for its size on disk
func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	err := s.state.Do(func(st store.IStore) error {
		_, err := st.Health()
		return err
	})
	if err != nil {
		Logger.Errorf("health check failed: %v", err)
		common.WriteError(w, common.ErrInternal)
		return
	}
	common.WriteJSON(w, http.StatusOK, common.HealthResponse{Healthy: true})
}

func (s *Server) get(w http.ResponseWriter, r *http.Request) {
	key, ok := pathKey(r)
	if !ok {
		s.fallback(w, r)
		return
	}

	var (
		value  []byte
		loaded bool
	)
	err := s.state.Do(func(st store.IStore) (err error) {
		value, loaded, err = st.Get(key)
		return err
	})

	switch {
	case err != nil:
		Logger.Errorf("get %q failed: %v", key, err)
		common.WriteError(w, common.ErrInternal)
	case !loaded:
		Logger.Debugf("get %q: not found", key)
		common.WriteError(w, common.ErrNotFound)
	default:
		common.WriteBytes(w, value)
	}
}

func (s *Server) put(w http.ResponseWriter, r *http.Request) {
	key, ok := pathKey(r)
	if !ok {
		s.fallback(w, r)
		return
	}

	// the body is read before taking the state lock
	body := http.MaxBytesReader(w, r.Body, s.opts.MaxValueBytes)
	value, err := io.ReadAll(body)
	defer body.Close()
	if err != nil {
		Logger.Errorf("put %q: failed to read request body: %v", key, err)
		common.WriteError(w, common.ErrInternal)
		return
	}

	err = s.state.Do(func(st store.IStore) error {
		return st.Put(key, value)
	})
	if err != nil {
		Logger.Errorf("put %q failed: %v", key, err)
		common.WriteError(w, common.ErrInternal)
		return
	}
	common.WriteJSON(w, http.StatusOK, common.ResultResponse{Result: true})
}

func (s *Server) delete(w http.ResponseWriter, r *http.Request) {
	key, ok := pathKey(r)
	if !ok {
		s.fallback(w, r)
		return
	}

	var existed bool
	err := s.state.Do(func(st store.IStore) (err error) {
		existed, err = st.Delete(key)
		return err
	})

	switch {
	case err != nil:
		Logger.Errorf("delete %q failed: %v", key, err)
		common.WriteError(w, common.ErrInternal)
	case !existed:
		Logger.Debugf("delete %q: not found", key)
		common.WriteError(w, common.ErrNotFound)
	default:
		common.WriteJSON(w, http.StatusOK, common.ResultResponse{Result: true})
	}
}

// fallback answers every request no route matched: 404 for reads, 405 otherwise
func (s *Server) fallback(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet || r.Method == http.MethodHead {
		common.WriteError(w, common.ErrNotFound)
		return
	}
	w.WriteHeader(http.StatusMethodNotAllowed)
}

// stats reports the store operation instruments and the state of the database
func (s *Server) stats(w http.ResponseWriter, _ *http.Request) {
	var info db.DatabaseInfo
	err := s.state.Do(func(st store.IStore) (err error) {
		info, err = st.GetDBInfo()
		return err
	})
	if err != nil {
		Logger.Errorf("stats: failed to read database info: %v", err)
		common.WriteError(w, common.ErrInternal)
		return
	}
	common.WriteJSON(w, http.StatusOK, StatsResponse{
		Database:   info,
		Operations: s.opts.Stats.Snapshot(),
	})
}

// StatsResponse is returned by GET /stats.
type StatsResponse struct {
	Database   db.DatabaseInfo              `json:"database"`
	Operations map[string]mstore.OpSnapshot `json:"operations"`
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

// pathKey returns the percent-decoded key segment. Empty keys are not routable.
func pathKey(r *http.Request) ([]byte, bool) {
	key := r.PathValue("key")
	if key == "" {
		return nil, false
	}
	return []byte(key), true
}
