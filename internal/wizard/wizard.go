// Package wizard is the interactive front end: a linear sequence of
// numbered menus that turns the user's choices into backup requests.
package wizard

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"vkbackup/pkg/backup"
	"vkbackup/pkg/logger"
	"vkbackup/pkg/ui"
	"vkbackup/pkg/vk"
)

// errExit ends the main loop; it is returned by prompts at end of input
var errExit = errors.New("exit")

// VKClient is the part of *vk.Client the wizard uses
type VKClient interface {
	ListFriends() ([]vk.Friend, error)
	GetUser(ref string) (*vk.User, error)
	ListAlbums(ownerID int64) ([]vk.Album, error)
	CheckAlbumAccess(ownerID, albumID int64) (bool, error)
}

// Runner executes backups; *backup.Pipeline satisfies it
type Runner interface {
	Run(req backup.Request) (*backup.Result, error)
	HasDestination(kind backup.Kind) bool
	TopCount() int
}

// TokenSaver persists tokens; *auth.Manager satisfies it
type TokenSaver interface {
	Store(name, value string) error
}

// Wizard drives one interactive session
type Wizard struct {
	vk      VKClient
	runner  Runner
	term    *ui.Terminal
	in      *bufio.Reader
	logger  logger.Logger
	saver   TokenSaver
	tokens  map[string]string
	friends []vk.Friend
}

// New creates a wizard reading answers from in and printing to term
func New(vkClient VKClient, runner Runner, term *ui.Terminal, in io.Reader, log logger.Logger) *Wizard {
	if log == nil {
		log = logger.GetLogger()
	}
	return &Wizard{
		vk:     vkClient,
		runner: runner,
		term:   term,
		in:     bufio.NewReader(in),
		logger: log.WithField("component", "wizard"),
	}
}

// SetTokenSaver enables the "store tokens" menu entry. tokens maps token
// names to the values currently in use.
func (w *Wizard) SetTokenSaver(saver TokenSaver, tokens map[string]string) {
	w.saver = saver
	w.tokens = tokens
}

// Run validates the VK token and then loops over the main menu until the
// user exits or input ends. Only a failed token check is returned as an
// error; failures while processing a user are reported and the loop
// continues.
func (w *Wizard) Run() error {
	friends, err := w.vk.ListFriends()
	if err != nil {
		w.logger.WithError(err).Error("VK token validation failed")
		return fmt.Errorf("failed to validate VK token: %w", err)
	}
	w.friends = friends
	w.logger.WithField("friends", len(friends)).Info("VK token validated")

	for {
		w.printFriends()
		w.printMenu()

		choice, err := w.ask("Choose an action: ")
		if err != nil {
			return w.finish(err)
		}

		switch choice {
		case "1":
			err = w.backupFriend()
		case "2":
			err = w.backupUser("")
		case "3":
			err = w.backupManual()
		case "4":
			return w.finish(errExit)
		case "5":
			w.storeTokens()
		default:
			w.term.Error("Invalid choice, enter a number from 1 to 5")
			continue
		}

		if errors.Is(err, errExit) {
			return w.finish(err)
		}
		if err != nil {
			w.logger.WithError(err).Error("Backup failed")
			w.term.Error("Backup failed", err)
		}
	}
}

func (w *Wizard) finish(err error) error {
	if errors.Is(err, errExit) {
		w.term.Println()
		w.term.Highlight("Bye!")
		w.logger.Info("Session finished")
		return nil
	}
	return err
}

func (w *Wizard) printFriends() {
	w.term.Println()
	if len(w.friends) == 0 {
		w.term.Warning("Your friend list is empty")
		return
	}
	w.term.Highlight("Friends:")
	for i, f := range w.friends {
		w.term.Printf("%d. %s (ID: %d)\n", i+1, f.FullName(), f.ID)
	}
}

func (w *Wizard) printMenu() {
	w.term.Println()
	w.term.Println("1. Back up a friend's photos")
	w.term.Println("2. Back up my own photos")
	w.term.Println("3. Enter a user ID manually")
	w.term.Println("4. Exit")
	w.term.Println("5. Save tokens to the token store")
}

// ask prints prompt and reads one trimmed line. End of input yields errExit.
func (w *Wizard) ask(prompt string) (string, error) {
	w.term.Printf("%s", prompt)

	line, err := w.in.ReadString('\n')
	line = strings.TrimSpace(line)
	if err != nil {
		if !errors.Is(err, io.EOF) {
			return "", fmt.Errorf("failed to read input: %w", err)
		}
		if line == "" {
			return "", errExit
		}
	}
	return line, nil
}

// choose prints numbered options and returns the 1-based index picked,
// asking again until the answer is valid
func (w *Wizard) choose(title string, options []string) (int, error) {
	w.term.Println()
	w.term.Highlight(title)
	for i, opt := range options {
		w.term.Printf("%d. %s\n", i+1, opt)
	}

	for {
		answer, err := w.ask(fmt.Sprintf("Enter a number (1-%d): ", len(options)))
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(answer)
		if err == nil && n >= 1 && n <= len(options) {
			return n, nil
		}
		w.term.Error(fmt.Sprintf("Invalid choice %q, enter a number from 1 to %d", answer, len(options)))
	}
}

func (w *Wizard) backupFriend() error {
	if len(w.friends) == 0 {
		w.term.Warning("There are no friends to choose from")
		return nil
	}

	names := make([]string, len(w.friends))
	for i, f := range w.friends {
		names[i] = fmt.Sprintf("%s (ID: %d)", f.FullName(), f.ID)
	}
	n, err := w.choose("Choose a friend:", names)
	if err != nil {
		return err
	}

	friend := w.friends[n-1]
	return w.process(friend.ID, friend.FullName())
}

func (w *Wizard) backupManual() error {
	for {
		ref, err := w.ask("Enter a user ID or screen name: ")
		if err != nil {
			return err
		}
		if ref != "" {
			return w.backupUser(ref)
		}
		w.term.Error("The user ID cannot be empty")
	}
}

// backupUser resolves ref (empty for the token owner) and processes it
func (w *Wizard) backupUser(ref string) error {
	user, err := w.vk.GetUser(ref)
	if err != nil {
		if ref == "" {
			return fmt.Errorf("failed to load your profile: %w", err)
		}
		return fmt.Errorf("failed to find user %q: %w", ref, err)
	}
	return w.process(user.ID, user.FirstName+" "+user.LastName)
}

// process asks for the source, destination and scope of one user's
// backup and runs it
func (w *Wizard) process(ownerID int64, name string) error {
	w.term.Info("User", fmt.Sprintf("%s (ID: %d)", name, ownerID))
	log := w.logger.WithField("owner_id", ownerID)

	album, err := w.chooseAlbum(ownerID)
	if err != nil || album == "" {
		return err
	}

	kind, err := w.chooseDestination()
	if err != nil {
		return err
	}

	scope, err := w.chooseScope()
	if err != nil {
		return err
	}

	log.InfoWithFields("Starting backup", map[string]interface{}{
		"album":       album.String(),
		"destination": string(kind),
		"all":         scope.All,
	})

	result, err := w.runner.Run(backup.Request{
		OwnerID:     ownerID,
		Album:       album,
		Scope:       scope,
		Destination: kind,
	})
	if errors.Is(err, backup.ErrNoPhotos) {
		w.term.Warning("The album is empty or you have no access to it")
		return nil
	}
	if err != nil {
		return err
	}

	w.term.Success(fmt.Sprintf("Saved %d of %d photos", result.Saved, result.Total))
	if result.Failed > 0 {
		w.term.Warning(fmt.Sprintf("%d photos could not be saved, see the log for details", result.Failed))
	}
	w.term.Info("Location", result.Location)
	w.term.Info("Manifest", result.ManifestPath)
	return nil
}

// chooseAlbum returns the album to back up, or "" when the user picked an
// album that cannot be accessed
func (w *Wizard) chooseAlbum(ownerID int64) (vk.AlbumRef, error) {
	n, err := w.choose("Where should the photos come from?", []string{
		"Profile photos",
		"Wall photos",
		"A photo album",
	})
	if err != nil {
		return "", err
	}

	switch n {
	case 1:
		return vk.AlbumProfile, nil
	case 2:
		return vk.AlbumWall, nil
	}

	albums, err := w.vk.ListAlbums(ownerID)
	if err != nil {
		return "", fmt.Errorf("failed to list albums: %w", err)
	}
	if len(albums) == 0 {
		w.term.Warning("The user has no albums you can see")
		return "", nil
	}

	titles := make([]string, len(albums))
	for i, a := range albums {
		titles[i] = fmt.Sprintf("%s (%d photos)", a.Title, a.Size)
	}
	n, err = w.choose("Choose an album:", titles)
	if err != nil {
		return "", err
	}

	album := albums[n-1]
	ref := album.Ref()
	if ref.IsSystem() {
		return ref, nil
	}

	ok, err := w.vk.CheckAlbumAccess(ownerID, album.ID)
	if err != nil {
		return "", fmt.Errorf("failed to check album access: %w", err)
	}
	if !ok {
		w.term.Warning(fmt.Sprintf("No access to album %q", album.Title))
		return "", nil
	}
	return ref, nil
}

func (w *Wizard) chooseDestination() (backup.Kind, error) {
	kinds := []backup.Kind{backup.KindLocal, backup.KindYandex}
	labels := []string{"Local disk", "Yandex.Disk"}
	if w.runner.HasDestination(backup.KindS3) {
		kinds = append(kinds, backup.KindS3)
		labels = append(labels, "S3 bucket")
	}

	n, err := w.choose("Where should the photos be saved?", labels)
	if err != nil {
		return "", err
	}
	return kinds[n-1], nil
}

func (w *Wizard) chooseScope() (backup.Scope, error) {
	top := w.runner.TopCount()
	n, err := w.choose("How many photos?", []string{
		"All photos",
		fmt.Sprintf("Only the first %d photos", top),
	})
	if err != nil {
		return backup.Scope{}, err
	}
	if n == 1 {
		return backup.Scope{All: true}, nil
	}
	return backup.Scope{Top: top}, nil
}

func (w *Wizard) storeTokens() {
	if w.saver == nil {
		w.term.Warning("No token store is available on this system")
		return
	}

	for name, value := range w.tokens {
		if err := w.saver.Store(name, value); err != nil {
			w.logger.WithError(err).WithField("token", name).Error("Failed to store token")
			w.term.Error("Failed to store "+name, err)
			return
		}
	}
	w.logger.Info("Tokens stored")
	w.term.Success("Tokens saved. They will be used when the config file has none.")
}
