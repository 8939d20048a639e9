package mockserver

import (
	"log"
	"net"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"

	"github.com/comteq/jokes/internal/jokesapi"
)

// CollectionPath is where the collection is mounted.
const CollectionPath = "/jokes_api"

// Server is an in-memory jokes collection speaking the same JSON contract as
// the real server.
type Server struct {
	app      *fiber.App
	requests atomic.Int64

	mu     sync.Mutex
	items  []jokesapi.Joke
	nextID int64
}

type detail struct {
	Detail string `json:"detail"`
}

// New builds a server holding the given records. Seed records without an id
// are assigned one; ids continue after the largest seeded id.
func New(seed ...jokesapi.Joke) *Server {
	s := &Server{nextID: 1}
	for _, j := range seed {
		if id, ok := j.Key(); ok && id >= s.nextID {
			s.nextID = id + 1
		}
	}
	for _, j := range seed {
		if !j.HasID() {
			j = j.WithID(s.nextID)
			s.nextID++
		}
		s.items = append(s.items, j.Clone())
	}

	app := fiber.New(fiber.Config{
		AppName:               "jokes mock server",
		DisableStartupMessage: true,
	})
	app.Use(func(c *fiber.Ctx) error {
		s.requests.Add(1)
		return c.Next()
	})
	app.Use(logger.New(logger.Config{
		Format: "${method} ${path} ${status} ${latency}\n",
		Output: log.Writer(),
	}))

	app.Get(CollectionPath, s.list)
	app.Post(CollectionPath, s.create)
	app.Get(CollectionPath+"/:id", s.get)
	app.Put(CollectionPath+"/:id", s.update)
	app.Delete(CollectionPath+"/:id", s.delete)

	s.app = app
	return s
}

// Seed returns a handful of records for local development.
func Seed() []jokesapi.Joke {
	return []jokesapi.Joke{
		jokesapi.NewJoke("Why do programmers prefer dark mode?", "Because light attracts bugs."),
		jokesapi.NewJoke("How many programmers does it take to change a light bulb?", "None. It's a hardware problem."),
		jokesapi.NewJoke("Why did the developer go broke?", "Because they used up all their cache."),
	}
}

// App exposes the fiber app, mainly for app.Test in unit tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen serves on addr until Shutdown.
func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

// Listener serves on an existing listener until Shutdown.
func (s *Server) Listener(ln net.Listener) error {
	return s.app.Listener(ln)
}

// Shutdown stops serving.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// Requests returns how many requests the server has received.
func (s *Server) Requests() int64 {
	return s.requests.Load()
}

// Items returns a copy of the stored records in insertion order.
func (s *Server) Items() []jokesapi.Joke {
	s.mu.Lock()
	defer s.mu.Unlock()
	return jokesapi.CloneAll(s.items)
}

func (s *Server) list(c *fiber.Ctx) error {
	items := s.Items()
	if items == nil {
		items = []jokesapi.Joke{}
	}
	return c.JSON(items)
}

func (s *Server) get(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return notFound(c)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexLocked(id)
	if idx < 0 {
		return notFound(c)
	}
	return c.JSON(s.items[idx])
}

func (s *Server) create(c *fiber.Ctx) error {
	joke, err := decode(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	created := joke.WithID(s.nextID)
	s.nextID++
	s.items = append(s.items, created)
	return c.Status(fiber.StatusCreated).JSON(created)
}

func (s *Server) update(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return notFound(c)
	}
	joke, err := decode(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexLocked(id)
	if idx < 0 {
		return notFound(c)
	}
	s.items[idx] = joke.WithID(id)
	return c.JSON(s.items[idx])
}

func (s *Server) delete(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return notFound(c)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexLocked(id)
	if idx < 0 {
		return notFound(c)
	}
	removed := s.items[idx]
	s.items = append(s.items[:idx], s.items[idx+1:]...)
	return c.JSON(removed)
}

func (s *Server) indexLocked(id int64) int {
	for i, j := range s.items {
		if key, ok := j.Key(); ok && key == id {
			return i
		}
	}
	return -1
}

func parseID(c *fiber.Ctx) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSuffix(c.Params("id"), "/"), 10, 64)
	return id, err == nil
}

func decode(c *fiber.Ctx) (jokesapi.Joke, error) {
	var joke jokesapi.Joke
	if err := c.BodyParser(&joke); err != nil {
		return jokesapi.Joke{}, err
	}
	joke.ID = nil
	joke.Setup = strings.TrimSpace(joke.Setup)
	joke.Punchline = strings.TrimSpace(joke.Punchline)
	if err := joke.Validate(); err != nil {
		return jokesapi.Joke{}, err
	}
	return joke, nil
}

func notFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(detail{Detail: "Not found."})
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(detail{Detail: msg})
}
