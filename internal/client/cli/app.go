package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/dmitrijs2005/fashionfinder/internal/client/models"
	"github.com/dmitrijs2005/fashionfinder/internal/client/session"
	"github.com/dmitrijs2005/fashionfinder/internal/client/store"
	"github.com/dmitrijs2005/fashionfinder/internal/logging"
)

// Store is the part of the application store the REPL drives.
type Store interface {
	Snapshot() store.State

	RegisterOrTouchBoard(ctx context.Context, url, title string) (*models.Board, error)
	ScrapeBoard(ctx context.Context, url string, downloadImages bool) (*models.ScrapeResponse, error)
	RemoveBoard(ctx context.Context, id string) error
	FetchUserBoards(ctx context.Context) error
	ClearRecentBoards(ctx context.Context)
	BoardImages(ctx context.Context, url string) ([]string, error)
	DownloadFile(ctx context.Context, path string) ([]byte, error)

	FetchPersonalItems(ctx context.Context) error
	AddPersonalItem(ctx context.Context, imageURL, title, description string, tags []string) (*models.PersonalItem, error)
	UploadPersonalItem(ctx context.Context, up store.Upload) (*models.PersonalItem, error)
	RemovePersonalItem(ctx context.Context, id string) error
	SelectPersonalItem(id string)
	DeselectPersonalItem(id string)
	ClearSelectedItems()

	FetchItemMatches(ctx context.Context) error
	CreateItemMatch(ctx context.Context, boardID string, personalItemIDs []string, limit int) (*models.ItemMatch, error)
	RemoveItemMatch(ctx context.Context, id string) error

	AddQueryImage(image string)
	RemoveQueryImage(index int)
	ClearQueryImages()
	ClearResults()
	FindMatches(ctx context.Context) (*models.MatchResponse, error)
	FetchBoardHistory(ctx context.Context, boardID string) []models.UserQuery
	FetchQueryResults(ctx context.Context, queryID string) *models.QueryResult
}

// Session is the identity surface of the REPL.
type Session interface {
	Current() session.Snapshot
	SignIn(ctx context.Context, email, password string) error
	SignUp(ctx context.Context, email, password string) (bool, error)
	SignOut(ctx context.Context) error
	ResetPassword(ctx context.Context, email string) error
}

// Linker issues temporary download links for objects of the images bucket.
type Linker interface {
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
}

type Deps struct {
	Store   Store
	Session Session
	Links   Linker
	// Migrate applies the backend schema; the migrate command is absent when nil.
	Migrate func(ctx context.Context) error
	In      io.Reader
	Out     io.Writer
	Logger  logging.Logger
}

type App struct {
	store   Store
	session Session
	links   Linker
	migrate func(ctx context.Context) error
	reader  *bufio.Reader
	out     io.Writer
	logger  logging.Logger

	commands map[string]command
}

func NewApp(d Deps) *App {
	if d.In == nil {
		d.In = os.Stdin
	}
	if d.Out == nil {
		d.Out = os.Stdout
	}
	if d.Logger == nil {
		d.Logger = logging.Nop()
	}
	a := &App{
		store:   d.Store,
		session: d.Session,
		links:   d.Links,
		migrate: d.Migrate,
		reader:  bufio.NewReader(d.In),
		out:     d.Out,
		logger:  d.Logger,
	}
	a.commands = a.buildCommands()
	return a
}

func (a *App) buildCommands() map[string]command {
	list := []command{
		{name: "register", usage: "register", run: a.register},
		{name: "login", usage: "login", run: a.login},
		{name: "reset", usage: "reset", run: a.resetPassword},
		{name: "whoami", usage: "whoami", run: a.whoami},
		{name: "logout", usage: "logout", auth: true, run: a.logout},

		{name: "scrape", usage: "scrape <url> [download]", run: a.scrape},
		{name: "open", usage: "open <url|#n> [title]", auth: true, run: a.open},
		{name: "boards", usage: "boards", run: a.boards},
		{name: "rmboard", usage: "rmboard <id>", auth: true, run: a.removeBoard},
		{name: "clearrecent", usage: "clearrecent", run: a.clearRecent},
		{name: "images", usage: "images [url]", run: a.images},
		{name: "download", usage: "download <path> <file>", run: a.download},

		{name: "items", usage: "items", auth: true, run: a.items},
		{name: "upload", usage: "upload <file>", auth: true, run: a.upload},
		{name: "additem", usage: "additem <image url>", auth: true, run: a.addItem},
		{name: "rmitem", usage: "rmitem <id>", auth: true, run: a.removeItem},
		{name: "select", usage: "select <id>...", auth: true, run: a.selectItems},
		{name: "deselect", usage: "deselect <id>...", auth: true, run: a.deselectItems},
		{name: "clearsel", usage: "clearsel", auth: true, run: a.clearSelection},

		{name: "match", usage: "match [limit]", auth: true, run: a.match},
		{name: "matches", usage: "matches", auth: true, run: a.matches},
		{name: "rmmatch", usage: "rmmatch <id>", auth: true, run: a.removeMatch},

		{name: "addimg", usage: "addimg <url>", run: a.addQueryImage},
		{name: "rmimg", usage: "rmimg <n>", run: a.removeQueryImage},
		{name: "clearimgs", usage: "clearimgs", run: a.clearQueryImages},
		{name: "find", usage: "find", run: a.find},
		{name: "clear", usage: "clear", run: a.clearResults},
		{name: "history", usage: "history", auth: true, run: a.history},
		{name: "result", usage: "result <query id>", auth: true, run: a.result},
	}
	if a.links != nil {
		list = append(list, command{name: "link", usage: "link <path> [ttl]", run: a.link})
	}
	if a.migrate != nil {
		list = append(list, command{name: "migrate", usage: "migrate", run: a.runMigrations})
	}

	m := make(map[string]command, len(list))
	for _, c := range list {
		m[c.name] = c
	}
	return m
}

func (a *App) lookup(name string) (command, bool) {
	c, ok := a.commands[name]
	return c, ok
}

func (a *App) help() string {
	loggedIn := a.isLoggedIn()
	usages := make([]string, 0, len(a.commands))
	for _, c := range a.commands {
		if c.auth && !loggedIn {
			continue
		}
		if loggedIn && (c.name == "login" || c.name == "register") {
			continue
		}
		usages = append(usages, c.usage)
	}
	sort.Strings(usages)
	return "Available commands:\n  " + strings.Join(usages, "\n  ") + "\n  exit"
}

func (a *App) isLoggedIn() bool {
	return a.session.Current().State == session.Authenticated
}

func (a *App) getStatus() string {
	var parts []string
	if snap := a.session.Current(); snap.State == session.Authenticated {
		parts = append(parts, snap.Email)
	}
	st := a.store.Snapshot()
	if st.CurrentBoard != nil {
		parts = append(parts, "["+st.CurrentBoard.Title+"]")
	}
	if st.Busy() {
		parts = append(parts, "busy")
	}
	if len(parts) == 0 {
		return ""
	}
	return fmt.Sprintf(" (%s)", strings.Join(parts, " "))
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

// Run blocks in the REPL until the user exits.
func (a *App) Run(ctx context.Context) {
	a.printf("Welcome to fashion finder (type 'help' for commands)\n")
	runREPL(ctx, a, a.getStatus, a.reader)
	a.logger.Debug(ctx, "repl finished")
}
