// Package cli drives the bank from a line-oriented terminal session.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"

	"cardbank/internal/service"
)

// ErrExit is returned when the user picks Exit. The caller decides how the
// process ends.
var ErrExit = errors.New("exit requested")

const mainMenu = `
1. Create an account
2. Log into account
0. Exit
`

const accountMenu = `
1. Balance
2. Add income
3. Do transfer
4. Close account
5. Log out
0. Exit
`

type Menu struct {
	bank *service.BankService
	in   *bufio.Scanner
	out  io.Writer
}

func NewMenu(bank *service.BankService, in io.Reader, out io.Writer) *Menu {
	return &Menu{
		bank: bank,
		in:   bufio.NewScanner(in),
		out:  out,
	}
}

// Run shows the main menu until the user exits (ErrExit) or input ends
// (io.EOF). Any other error is unexpected.
func (m *Menu) Run(ctx context.Context) error {
	for {
		m.printf(mainMenu)

		choice, err := m.readLine()
		if err != nil {
			return err
		}

		switch choice {
		case "1":
			m.createAccount(ctx)
		case "2":
			if err := m.login(ctx); err != nil {
				return err
			}
		case "0":
			m.printf("\nBye!\n")
			return ErrExit
		default:
			m.printf("\nUnknown option!\n")
		}
	}
}

func (m *Menu) createAccount(ctx context.Context) {
	account, err := m.bank.CreateAccount(ctx)
	if err != nil {
		m.report(err)
		return
	}
	m.printf("\nYour card has been created\n")
	m.printf("Your card number:\n%s\n", account.Number)
	m.printf("Your card PIN:\n%s\n", account.PIN)
}

func (m *Menu) login(ctx context.Context) error {
	m.printf("\nEnter your card number:\n")
	number, err := m.readLine()
	if err != nil {
		return err
	}
	m.printf("Enter your PIN:\n")
	pin, err := m.readLine()
	if err != nil {
		return err
	}

	sess, err := m.bank.Login(ctx, number, pin)
	if err != nil {
		if errors.Is(err, service.ErrAuthentication) {
			m.printf("\nWrong card number or PIN!\n")
			return nil
		}
		m.report(err)
		return nil
	}

	m.printf("\nYou have successfully logged in!\n")
	return m.account(ctx, sess)
}

// account runs the logged-in loop. nil means back to the main menu.
func (m *Menu) account(ctx context.Context, sess *service.Session) error {
	for {
		m.printf(accountMenu)

		choice, err := m.readLine()
		if err != nil {
			return err
		}

		switch choice {
		case "1":
			m.printf("\nBalance: %d\n", sess.Balance())
		case "2":
			if err := m.addIncome(ctx, sess); err != nil {
				return err
			}
		case "3":
			if err := m.transfer(ctx, sess); err != nil {
				return err
			}
		case "4":
			if err := sess.Close(ctx); err != nil {
				m.report(err)
				continue
			}
			m.printf("\nThe account has been closed!\n")
			return nil
		case "5":
			m.printf("\nYou have successfully logged out!\n")
			return nil
		case "0":
			m.printf("\nBye!\n")
			return ErrExit
		default:
			m.printf("\nUnknown option!\n")
		}
	}
}

func (m *Menu) addIncome(ctx context.Context, sess *service.Session) error {
	m.printf("\nEnter income:\n")
	amount, ok, err := m.readAmount()
	if err != nil || !ok {
		return err
	}
	if err := sess.Deposit(ctx, amount); err != nil {
		m.report(err)
		return nil
	}
	m.printf("Income was added!\n")
	return nil
}

func (m *Menu) transfer(ctx context.Context, sess *service.Session) error {
	m.printf("\nTransfer\nEnter card number:\n")
	receiver, err := m.readLine()
	if err != nil {
		return err
	}
	if err := sess.CheckReceiver(ctx, receiver); err != nil {
		m.report(err)
		return nil
	}

	m.printf("\nEnter how much money you want to transfer:\n")
	amount, ok, err := m.readAmount()
	if err != nil || !ok {
		return err
	}
	if err := sess.Transfer(ctx, receiver, amount); err != nil {
		m.report(err)
		return nil
	}
	m.printf("Success!\n")
	return nil
}

func (m *Menu) readLine() (string, error) {
	if !m.in.Scan() {
		if err := m.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(m.in.Text()), nil
}

// readAmount reads a whole number. ok is false when the line was not one;
// the user has already been told.
func (m *Menu) readAmount() (amount int64, ok bool, err error) {
	line, err := m.readLine()
	if err != nil {
		return 0, false, err
	}
	amount, err = strconv.ParseInt(line, 10, 64)
	if err != nil {
		m.printf("Please enter a whole number!\n")
		return 0, false, nil
	}
	return amount, true, nil
}

// report prints the user-facing text for err. Storage failures are logged
// and shown generically.
func (m *Menu) report(err error) {
	switch {
	case errors.Is(err, service.ErrSameAccount):
		m.printf("You can't transfer money to the same account!\n")
	case errors.Is(err, service.ErrInvalidNumber):
		m.printf("Probably you made a mistake in the card number. Please try again!\n")
	case errors.Is(err, service.ErrNoSuchReceiver):
		m.printf("Such a card does not exist.\n")
	case errors.Is(err, service.ErrInsufficientFunds):
		m.printf("Not enough money!\n")
	case errors.Is(err, service.ErrInvalidAmount):
		m.printf("Amount must not be negative!\n")
	case errors.Is(err, service.ErrSessionClosed):
		m.printf("The account has been closed!\n")
	default:
		log.Printf("[CLI] operation failed: %v", err)
		m.printf("Something went wrong, please try again.\n")
	}
}

func (m *Menu) printf(format string, args ...interface{}) {
	fmt.Fprintf(m.out, format, args...)
}
