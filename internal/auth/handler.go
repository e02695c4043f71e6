package auth

import (
	"encoding/json"
	"net/http"
)

type LoginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// Handler autentica o operador do painel admin. A credencial única vem do
// ambiente: login e hash bcrypt da senha.
type Handler struct {
	Secret    []byte
	Login     string
	SenhaHash string
}

func NewHandler(secret []byte, login, senhaHash string) *Handler {
	return &Handler{Secret: secret, Login: login, SenhaHash: senhaHash}
}

// LoginAdmin gera um JWT para credenciais válidas
func (h *Handler) LoginAdmin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "payload inválido", http.StatusBadRequest)
		return
	}

	if h.Login == "" || h.SenhaHash == "" {
		http.Error(w, "admin não configurado", http.StatusServiceUnavailable)
		return
	}

	if req.Login != h.Login || !CheckSenha(h.SenhaHash, req.Password) {
		http.Error(w, "credenciais inválidas", http.StatusUnauthorized)
		return
	}

	token, err := GerarToken(h.Secret, req.Login)
	if err != nil {
		http.Error(w, "erro ao gerar token", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"token": token})
}
