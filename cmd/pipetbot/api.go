package main

import (
	"encoding/json"
	"errors"
	"io"
	"io/ioutil"
	"log"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	sse "github.com/alexandrevicenzi/go-sse"
	"github.com/gorilla/mux"
	"github.com/mastercactapus/pipetbot/command"
	"github.com/mastercactapus/pipetbot/config"
	"github.com/mastercactapus/pipetbot/coord"
	"github.com/mastercactapus/pipetbot/machine"
	"github.com/mastercactapus/pipetbot/machine/arduino"
	"github.com/mastercactapus/pipetbot/plate"
	"github.com/mastercactapus/pipetbot/program"
	"github.com/mastercactapus/pipetbot/task"
)

type api struct {
	http.Handler
	app     *app
	dataDir string
	sse     *sse.Server
}

func newAPI(a *app, dir string) *api {
	r := mux.NewRouter()

	srv := &api{
		Handler: r,
		app:     a,
		dataDir: dir,
		sse: sse.NewServer(&sse.Options{
			Logger: log.New(ioutil.Discard, "", 0),
		}),
	}

	fs := http.FileServer(http.Dir(dir))
	r.PathPrefix("/data/").Handler(http.StripPrefix("/data", http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		switch req.Method {
		case "GET":
			fs.ServeHTTP(w, req)
		case "PUT":
			srv.putFile(w, req)
		case "DELETE":
			srv.deleteFile(w, req)
		default:
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		}
	})))

	r.HandleFunc("/api/ports", srv.listPorts).Methods("GET")
	r.HandleFunc("/api/connect", srv.connect).Methods("POST")
	r.HandleFunc("/api/disconnect", srv.disconnect).Methods("POST")
	r.HandleFunc("/api/send", srv.send).Methods("POST")
	r.HandleFunc("/api/plates", srv.listPlates).Methods("GET")
	r.HandleFunc("/api/plates", srv.addPlate).Methods("POST")
	r.HandleFunc("/api/plates", srv.clearPlates).Methods("DELETE")
	r.HandleFunc("/api/plates/{name}", srv.removePlate).Methods("DELETE")
	r.HandleFunc("/api/resolve", srv.resolve).Methods("GET")
	r.HandleFunc("/api/tasks", srv.enqueue).Methods("POST")
	r.HandleFunc("/api/tasks", srv.clearTasks).Methods("DELETE")
	r.HandleFunc("/api/run", srv.run).Methods("POST")
	r.HandleFunc("/api/stop", srv.stop).Methods("POST")
	r.HandleFunc("/api/calibrate", srv.calibrate).Methods("POST")
	r.HandleFunc("/api/state", srv.state).Methods("GET")

	r.Handle("/events/state", srv.sse)
	go func() {
		for state := range a.m.State() {
			data, err := json.Marshal(state)
			if err != nil {
				log.Printf("ERROR: marshal json: %+v", err)
				continue
			}
			srv.sse.SendMessage("/events/state", sse.SimpleMessage(string(data)))
		}
	}()

	return srv
}

func safePath(base, name string) (bool, string) {
	if filepath.Separator != '/' && strings.ContainsRune(name, filepath.Separator) {
		log.Println("invalid path '" + name + "'")
		return false, ""
	}
	dir := base
	if dir == "" {
		dir = "."
	}
	fullName := filepath.Join(dir, filepath.FromSlash(path.Clean("/"+name)))
	return true, fullName
}

// status maps an error to the HTTP status reported for it.
func status(err error) int {
	switch {
	case errors.Is(err, errInvalidProgram):
		return http.StatusUnprocessableEntity
	case errors.Is(err, command.ErrMalformed),
		errors.Is(err, task.ErrParse),
		errors.Is(err, task.ErrUnbound),
		errors.Is(err, program.ErrStep),
		errors.Is(err, plate.ErrConfiguration):
		return http.StatusBadRequest
	case errors.Is(err, plate.ErrPlateNotFound),
		errors.Is(err, plate.ErrWellNotFound):
		return http.StatusNotFound
	case errors.Is(err, machine.ErrBusy),
		errors.Is(err, arduino.ErrAlreadyConnected):
		return http.StatusConflict
	case errors.Is(err, arduino.ErrNotConnected),
		errors.Is(err, arduino.ErrConnectTimeout):
		return http.StatusServiceUnavailable
	case errors.Is(err, errRemotePort):
		return http.StatusNotImplemented
	}
	return http.StatusInternalServerError
}

func fail(w http.ResponseWriter, op string, err error) {
	code := status(err)
	if code == http.StatusInternalServerError {
		log.Printf("ERROR: %s: %+v", op, err)
	}
	http.Error(w, err.Error(), code)
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		log.Println("ERROR: encode:", err)
	}
}

func (a *api) listPorts(w http.ResponseWriter, req *http.Request) {
	ports, err := a.app.ports()
	if err != nil {
		fail(w, "list ports", err)
		return
	}
	writeJSON(w, struct {
		Ports     []string `json:"ports"`
		Connected string   `json:"connected"`
	}{ports, a.app.connected()})
}

func (a *api) connect(w http.ResponseWriter, req *http.Request) {
	err := a.app.connect(req.Context(), req.FormValue("port"))
	if err != nil {
		fail(w, "connect", err)
		return
	}
}

func (a *api) disconnect(w http.ResponseWriter, req *http.Request) {
	err := a.app.disconnect()
	if err != nil {
		fail(w, "disconnect", err)
		return
	}
}

func (a *api) send(w http.ResponseWriter, req *http.Request) {
	data, err := ioutil.ReadAll(req.Body)
	if err != nil {
		fail(w, "read body", err)
		return
	}
	err = a.app.m.Send(strings.TrimSpace(string(data)))
	if err != nil {
		fail(w, "send", err)
		return
	}
}

type plateJSON struct {
	Name     string      `json:"name"`
	Ordering string      `json:"ordering"`
	Corner   coord.Point `json:"corner"`
	Specs    plate.Specs `json:"specs"`
	Wells    []wellJSON  `json:"wells,omitempty"`
}

type wellJSON struct {
	ID       string      `json:"id"`
	Col      int         `json:"col"`
	Row      int         `json:"row"`
	Location coord.Point `json:"location"`
}

func (a *api) listPlates(w http.ResponseWriter, req *http.Request) {
	res := []plateJSON{}
	for _, p := range a.app.registry.Plates() {
		pj := plateJSON{
			Name:     p.Name(),
			Ordering: string(p.Ordering()),
			Corner:   p.Corner(),
			Specs:    p.Specs(),
		}
		p.ForEachWell(func(wl *plate.Well) {
			col, row := wl.Grid()
			pj.Wells = append(pj.Wells, wellJSON{ID: wl.ID(), Col: col, Row: row, Location: wl.AbsoluteLocation()})
		})
		res = append(res, pj)
	}
	writeJSON(w, res)
}

func (a *api) addPlate(w http.ResponseWriter, req *http.Request) {
	var pj plateJSON
	err := json.NewDecoder(req.Body).Decode(&pj)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	cfg := config.Config{Plates: []config.PlateConfig{{
		Name:     pj.Name,
		Ordering: pj.Ordering,
		Corner:   pj.Corner,
		Specs:    pj.Specs,
	}}}
	err = cfg.AddPlates(a.app.registry)
	if err != nil {
		fail(w, "add plate", err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (a *api) clearPlates(w http.ResponseWriter, req *http.Request) {
	a.app.registry.Clear()
}

func (a *api) removePlate(w http.ResponseWriter, req *http.Request) {
	err := a.app.registry.RemovePlate(mux.Vars(req)["name"])
	if err != nil {
		fail(w, "remove plate", err)
		return
	}
}

func (a *api) resolve(w http.ResponseWriter, req *http.Request) {
	pt, err := a.app.registry.Resolve(req.FormValue("plate"), req.FormValue("well"))
	if err != nil {
		fail(w, "resolve", err)
		return
	}
	writeJSON(w, pt)
}

// enqueue accepts a YAML program, places its plates, validates it against
// the deck and queues it.
func (a *api) enqueue(w http.ResponseWriter, req *http.Request) {
	p, err := program.Decode(req.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	root, err := a.app.load(p)
	if err != nil {
		fail(w, "load program", err)
		return
	}
	err = a.app.m.Enqueue(root)
	if err != nil {
		fail(w, "enqueue", err)
		return
	}
	if req.FormValue("run") == "1" {
		err = a.app.m.Start()
		if err != nil {
			fail(w, "run", err)
			return
		}
	}
	w.Header().Set("Content-Type", "text/plain")
	task.Print(w, root)
}

func (a *api) clearTasks(w http.ResponseWriter, req *http.Request) {
	err := a.app.m.Clear()
	if err != nil {
		fail(w, "clear", err)
		return
	}
}

func (a *api) run(w http.ResponseWriter, req *http.Request) {
	err := a.app.m.Start()
	if err != nil {
		fail(w, "run", err)
		return
	}
}

func (a *api) stop(w http.ResponseWriter, req *http.Request) {
	err := a.app.m.Stop()
	if err != nil {
		fail(w, "stop", err)
		return
	}
}

func (a *api) calibrate(w http.ResponseWriter, req *http.Request) {
	err := a.app.m.Calibrate()
	if err != nil {
		fail(w, "calibrate", err)
		return
	}
}

func (a *api) state(w http.ResponseWriter, req *http.Request) {
	writeJSON(w, a.app.m.CurrentState())
}

func (a *api) putFile(w http.ResponseWriter, req *http.Request) {
	ok, name := safePath(a.dataDir, req.URL.Path)
	if !ok {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	err := os.MkdirAll(filepath.Dir(name), 0755)
	if err != nil {
		log.Printf("ERROR: create '%s': %+v", filepath.Dir(name), err)
		http.Error(w, err.Error(), 500)
		return
	}
	f, err := os.Create(name)
	if err != nil {
		log.Printf("ERROR: create '%s': %+v", name, err)
		http.Error(w, err.Error(), 500)
		return
	}
	defer f.Close()
	_, err = io.Copy(f, req.Body)
	if err != nil {
		log.Printf("ERROR: write '%s': %+v", name, err)
		http.Error(w, err.Error(), 500)
		return
	}
}

func (a *api) deleteFile(w http.ResponseWriter, req *http.Request) {
	ok, name := safePath(a.dataDir, req.URL.Path)
	if !ok {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	err := os.Remove(name)
	if err != nil {
		log.Printf("ERROR: delete '%s': %+v", name, err)
		http.Error(w, err.Error(), 500)
		return
	}
}
