// Package mocks provides gomock implementations of the claims-ui ports.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	api := mocks.NewMockClaimsAPI(ctrl)
//	api.EXPECT().ListClaims(gomock.Any(), gomock.Any()).Return(page, nil)
package mocks

// Generate mock for the ClaimsAPI port: ListClaims, GetClaim, ListSubmissions, GetSubmission.
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=claims_api_mock.go github.com/ministryofjustice/claims-ui/internal/ports ClaimsAPI
