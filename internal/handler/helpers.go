package handler

import (
	"encoding/json"
	"net/http"

	"exam-dashboard-server/internal/model"
	"exam-dashboard-server/internal/model/requestresponse"
)

func sendErrorResponse(w http.ResponseWriter, statusCode int, text string) {
	w.WriteHeader(statusCode)

	resp := requestresponse.ErrorResponse{
		Error: requestresponse.ErrorDetail{
			Code: statusCode,
			Text: text,
		},
	}
	json.NewEncoder(w).Encode(resp)
}

// authUserResponse собирает user-shaped ответ на login и refresh
func authUserResponse(user *model.User, tokens *model.TokensPair) requestresponse.AuthUserResponse {
	return requestresponse.AuthUserResponse{
		UUID:         user.UUID,
		FullName:     user.FullName,
		Email:        user.Email,
		Username:     user.Username,
		Avatar:       user.Avatar,
		Token:        tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	}
}
