package mocks

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name HubResourceFetcher --dir ../usecase --output usecase --outpkg usecasemock --filename hub_resource_fetcher_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name MessageSender --dir ../interfaces/chatbot --output chatbot --outpkg chatbotmock --filename message_sender_mock.go
