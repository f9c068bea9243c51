// Package mocks provides centralized mock implementations for testing.
//
// Each mock has a function field per interface method plus default return
// values used when the function is nil:
//
//	svc := &mocks.MockFlashcardService{
//	    GetFlashcardFn: func(ctx context.Context, userID uuid.UUID, id int64) (*domain.Flashcard, error) {
//	        return card, nil
//	    },
//	}
//
// When adding a new mock, name the file after the interface being mocked.
package mocks
