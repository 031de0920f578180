// Package mocks provides gomock mocks for the repository and store ports.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	mockRepo := mocks.NewMockUserRepository(ctrl)
//	mockRepo.EXPECT().GetByEmail(gomock.Any(), "a@example.com").Return(user, nil)
package mocks

// MockUserRepository: Create, GetByEmail.
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=user_repository_mock.go github.com/scagent/scagent-web/internal/ports UserRepository

// MockSessionStore: Save, Get, Delete.
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=session_store_mock.go github.com/scagent/scagent-web/internal/ports SessionStore
