// Copyright (c) 2017-2018 The qitmeer developers

// Package service keeps the long running services of a node and starts and
// stops them in registration order.
package service

import (
	"fmt"
	"reflect"

	"github.com/mestorlx/witnet-rust/rpc/api"
)

type IService interface {
	// Start is called after all services have been constructed to spawn
	// any goroutines required by the service.
	Start() error

	// Stop terminates all goroutines belonging to the service, blocking
	// until they are all terminated.
	Stop() error
}

// APIProvider is implemented by services exposing an RPC descriptor.
type APIProvider interface {
	API() api.API
}

type ServiceRegistry struct {
	services     map[reflect.Type]IService // map of types to services.
	serviceTypes []reflect.Type            // keep an ordered slice of registered service types.
	started      int                       // number of services started by StartAll.
}

func NewServiceRegistry() *ServiceRegistry {
	return &ServiceRegistry{
		services: make(map[reflect.Type]IService),
	}
}

// StartAll starts every service in registration order.  When one fails the
// services already started are stopped again in reverse order.
func (s *ServiceRegistry) StartAll() error {
	log.Debug(fmt.Sprintf("Starting %d services: %v", len(s.serviceTypes), s.serviceTypes))
	for _, kind := range s.serviceTypes {
		log.Debug(fmt.Sprintf("Starting service type %v", kind))
		if err := s.services[kind].Start(); err != nil {
			log.Error("Could not start service", "type", kind, "err", err)
			if stopErr := s.StopAll(); stopErr != nil {
				log.Warn("Rollback of started services failed", "err", stopErr)
			}
			return fmt.Errorf("start %v: %w", kind, err)
		}
		s.started++
	}
	return nil
}

// StopAll stops the started services in reverse order.
func (s *ServiceRegistry) StopAll() error {
	result := ""
	for i := s.started - 1; i >= 0; i-- {
		kind := s.serviceTypes[i]
		service := s.services[kind]
		if err := service.Stop(); err != nil {
			log.Error(fmt.Sprintf("Could not stop the following service: %v, %v", kind, err))
			result += fmt.Sprintf("(%v)", kind)
		}
	}
	s.started = 0
	if len(result) > 0 {
		return fmt.Errorf("%s", result)
	}
	return nil
}

func (s *ServiceRegistry) RegisterService(service IService) error {
	kind := reflect.TypeOf(service)
	if _, exists := s.services[kind]; exists {
		return fmt.Errorf("service already exists: %v", kind)
	}
	s.services[kind] = service
	s.serviceTypes = append(s.serviceTypes, kind)
	return nil
}

func (s *ServiceRegistry) FetchService(service interface{}) error {
	if reflect.TypeOf(service).Kind() != reflect.Ptr {
		return fmt.Errorf("input must be of pointer type, received value type instead: %T", service)
	}
	element := reflect.ValueOf(service).Elem()
	if running, ok := s.services[element.Type()]; ok {
		element.Set(reflect.ValueOf(running))
		return nil
	}
	return fmt.Errorf("unknown service: %T", service)
}

// APIs returns the descriptors of the services that provide one.
func (s *ServiceRegistry) APIs() []api.API {
	apis := []api.API{}
	for _, kind := range s.serviceTypes {
		if p, ok := s.services[kind].(APIProvider); ok {
			apis = append(apis, p.API())
		}
	}
	return apis
}
