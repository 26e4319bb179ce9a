package lang

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/roman-mazur/filaments/model"
)

// HttpHandler accepts POSTed command scripts and applies them to scene. A
// script with any malformed line is rejected as a whole.
func HttpHandler(scene *model.Scene) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			log.Printf("HTTP Handler: Method not allowed %s", r.Method)
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		defer r.Body.Close()

		commands, err := ParseScript(r.Body)
		if err != nil {
			log.Printf("HTTP Handler: Error parsing script: %v", err)
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := ApplyAll(scene, commands); err != nil {
			log.Printf("HTTP Handler: Error applying script: %v", err)
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}

		log.Printf("HTTP Handler: Applied %d commands", len(commands))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("Commands processed\n"))
	}
}

// SceneHandler serves the scene as JSON on GET and replaces it on PUT.
func SceneHandler(scene *model.Scene) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			writeScene(w, scene.Serialize())
		case http.MethodPut:
			defer r.Body.Close()
			var format model.SceneFormat
			decoder := json.NewDecoder(r.Body)
			decoder.DisallowUnknownFields()
			if err := decoder.Decode(&format); err != nil {
				log.Printf("Scene Handler: Error decoding scene: %v", err)
				http.Error(w, "Malformed scene: "+err.Error(), http.StatusBadRequest)
				return
			}
			if err := format.Validate(); err != nil {
				log.Printf("Scene Handler: Rejected scene: %v", err)
				http.Error(w, err.Error(), http.StatusUnprocessableEntity)
				return
			}
			if _, err := scene.Deserialize(format); err != nil {
				http.Error(w, err.Error(), http.StatusUnprocessableEntity)
				return
			}
			writeScene(w, scene.Serialize())
		default:
			log.Printf("Scene Handler: Method not allowed %s", r.Method)
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

func writeScene(w http.ResponseWriter, format model.SceneFormat) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(format); err != nil {
		log.Printf("Scene Handler: Error writing response: %v", err)
	}
}
